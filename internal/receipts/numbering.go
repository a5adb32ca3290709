package receipts

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// artifact extensions that participate in numbering. Text and PDF
// receipts share one sequence per shop.
var artifactExtensions = []string{".txt", ".pdf"}

// Numbering is the receipt filename scheme: prefix plus a zero-padded
// sequence, e.g. sr#0007.
type Numbering struct {
	Prefix   string
	PadWidth int
}

// Format renders a sequence value as a receipt number.
func (n Numbering) Format(seq int) string {
	return fmt.Sprintf("%s%0*d", n.Prefix, n.PadWidth, seq)
}

// Parse extracts the sequence value from an artifact filename. It
// reports false for names outside the scheme.
func (n Numbering) Parse(filename string) (int, bool) {
	rest, ok := strings.CutPrefix(filename, n.Prefix)
	if !ok {
		return 0, false
	}
	ext := ""
	for _, candidate := range artifactExtensions {
		if strings.HasSuffix(rest, candidate) {
			ext = candidate
			break
		}
	}
	if ext == "" {
		return 0, false
	}
	digits := strings.TrimSuffix(rest, ext)
	if len(digits) != n.PadWidth {
		return 0, false
	}
	seq, err := strconv.Atoi(digits)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// scanMax returns the highest sequence found among artifact filenames
// in dir. A missing directory scans as zero.
func scanMax(dir string, n Numbering) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read bills directory: %w", err)
	}
	max := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if seq, ok := n.Parse(entry.Name()); ok && seq > max {
			max = seq
		}
	}
	return max, nil
}
