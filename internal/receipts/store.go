package receipts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const billsDirName = "bills"

// Receipt describes one issued artifact.
type Receipt struct {
	Number   string    `json:"number"`
	Sequence int       `json:"sequence"`
	Filename string    `json:"filename"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store writes and lists receipt artifacts under each shop's bills
// directory.
type Store struct {
	root      string
	numbering Numbering
	format    string
	now       func() time.Time
}

// NewStore builds an artifact store. format is the file extension given
// to issued artifacts; empty means "txt".
func NewStore(root string, numbering Numbering, format string) *Store {
	if format == "" {
		format = "txt"
	}
	return &Store{root: root, numbering: numbering, format: format, now: time.Now}
}

func (s *Store) billsDir(shop string) string {
	return filepath.Join(s.root, shop, billsDirName)
}

// Issue allocates the next receipt number and writes the rendered text
// artifact. Creation uses O_EXCL; if a file with the derived name
// already exists the number is re-derived and the write retried.
func (s *Store) Issue(ctx context.Context, shop string, header Header, lines []Line, total decimal.Decimal) (*Receipt, error) {
	dir := s.billsDir(shop)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bills directory: %w", err)
	}
	seq := NewSequence(dir, s.numbering)
	issuedAt := s.now()

	const maxAttempts = 10
	for attempt := 0; attempt < maxAttempts; attempt++ {
		sequence, number, err := seq.Next()
		if err != nil {
			return nil, err
		}
		filename := number + "." + s.format
		f, err := os.OpenFile(filepath.Join(dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return nil, fmt.Errorf("create receipt artifact: %w", err)
		}

		text := RenderText(header, number, issuedAt, lines, total)
		if _, err := f.WriteString(text); err != nil {
			f.Close()
			return nil, fmt.Errorf("write receipt artifact: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("close receipt artifact: %w", err)
		}
		return &Receipt{Number: number, Sequence: sequence, Filename: filename, IssuedAt: issuedAt}, nil
	}
	return nil, fmt.Errorf("receipt number collision persisted after %d attempts", maxAttempts)
}

// List returns the issued receipts for a shop, oldest first. A shop
// with no bills directory has no receipts.
func (s *Store) List(ctx context.Context, shop string) ([]Receipt, error) {
	entries, err := os.ReadDir(s.billsDir(shop))
	if err != nil {
		if os.IsNotExist(err) {
			return []Receipt{}, nil
		}
		return nil, fmt.Errorf("read bills directory: %w", err)
	}

	receipts := make([]Receipt, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		sequence, ok := s.numbering.Parse(entry.Name())
		if !ok {
			continue
		}
		receipt := Receipt{
			Number:   s.numbering.Format(sequence),
			Sequence: sequence,
			Filename: entry.Name(),
		}
		if info, err := entry.Info(); err == nil {
			receipt.IssuedAt = info.ModTime()
		}
		receipts = append(receipts, receipt)
	}
	sort.Slice(receipts, func(i, j int) bool { return receipts[i].Sequence < receipts[j].Sequence })
	return receipts, nil
}
