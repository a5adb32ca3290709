package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SHOPKEEPER"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Data    DataConfig
	Receipt ReceiptConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Receipt.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPKEEPER_APP_ENV" default:"dev"`
	Port         string `envconfig:"SHOPKEEPER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPKEEPER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPKEEPER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DataConfig resolves where per-shop data folders live. The root differs
// between a source checkout and an installed deployment, so it is always
// injected from the environment.
type DataConfig struct {
	Root string `envconfig:"SHOPKEEPER_DATA_ROOT" default:"./data"`
}

// ReceiptConfig controls the receipt filename scheme inside each shop's
// bills directory.
type ReceiptConfig struct {
	Prefix   string `envconfig:"SHOPKEEPER_RECEIPT_PREFIX" default:"sr#"`
	PadWidth int    `envconfig:"SHOPKEEPER_RECEIPT_PAD_WIDTH" default:"4"`
	Format   string `envconfig:"SHOPKEEPER_RECEIPT_FORMAT" default:"txt"`
}

func (r ReceiptConfig) validate() error {
	if strings.TrimSpace(r.Prefix) == "" {
		return fmt.Errorf("receipt prefix must not be empty")
	}
	if r.PadWidth < 1 || r.PadWidth > 9 {
		return fmt.Errorf("receipt pad width must be between 1 and 9, got %d", r.PadWidth)
	}
	switch strings.ToLower(r.Format) {
	case "txt":
	default:
		return fmt.Errorf("unsupported receipt format %q", r.Format)
	}
	return nil
}
