package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/shopkeeperhq/shopkeeper-backend/api/routes"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/cart"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/checkout"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/receipts"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/shops"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	shopRepo := shops.NewRepository(cfg.Data.Root)
	inventoryRepo := inventory.NewRepository(cfg.Data.Root)
	numbering := receipts.Numbering{Prefix: cfg.Receipt.Prefix, PadWidth: cfg.Receipt.PadWidth}
	receiptStore := receipts.NewStore(cfg.Data.Root, numbering, cfg.Receipt.Format)
	cartRegistry := cart.NewRegistry()

	shopService, err := shops.NewService(shopRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create shop service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventoryRepo, shopRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRegistry, inventoryRepo, shopRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(shopRepo, inventoryRepo, cartRegistry, receiptStore, checkoutMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	receiptService, err := receipts.NewService(receiptStore, shopRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"data_root": cfg.Data.Root,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			shopService,
			inventoryService,
			cartService,
			cartRegistry,
			checkoutService,
			receiptService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
