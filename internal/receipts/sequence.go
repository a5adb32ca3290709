package receipts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/storage"
)

const sequenceFileName = "sequence.json"

type sequenceFile struct {
	Last int `json:"last"`
}

// Sequence derives the next receipt number for one bills directory. The
// counter persists in sequence.json so deleting artifacts cannot reuse
// a number; the directory scan still participates so bills folders
// written before the counter existed continue where they left off.
type Sequence struct {
	dir       string
	numbering Numbering
}

func NewSequence(dir string, numbering Numbering) *Sequence {
	return &Sequence{dir: dir, numbering: numbering}
}

func (s *Sequence) counterPath() string {
	return filepath.Join(s.dir, sequenceFileName)
}

func (s *Sequence) readCounter() (int, error) {
	data, err := os.ReadFile(s.counterPath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read sequence counter: %w", err)
	}
	var counter sequenceFile
	if err := json.Unmarshal(data, &counter); err != nil {
		// A corrupt counter falls back to the directory scan.
		return 0, nil
	}
	return counter.Last, nil
}

func (s *Sequence) writeCounter(last int) error {
	data, err := json.Marshal(sequenceFile{Last: last})
	if err != nil {
		return fmt.Errorf("encode sequence counter: %w", err)
	}
	return storage.WriteFileAtomic(s.counterPath(), data, 0o644)
}

// Next advances the sequence and returns the new value with its
// formatted receipt number. The first call over an empty directory
// yields sequence 1.
func (s *Sequence) Next() (int, string, error) {
	scanned, err := scanMax(s.dir, s.numbering)
	if err != nil {
		return 0, "", err
	}
	persisted, err := s.readCounter()
	if err != nil {
		return 0, "", err
	}
	last := persisted
	if scanned > last {
		last = scanned
	}
	next := last + 1
	if err := s.writeCounter(next); err != nil {
		return 0, "", err
	}
	return next, s.numbering.Format(next), nil
}

// ScanNext derives the next number from artifact filenames alone,
// ignoring the persisted counter.
func (s *Sequence) ScanNext() (string, error) {
	scanned, err := scanMax(s.dir, s.numbering)
	if err != nil {
		return "", err
	}
	return s.numbering.Format(scanned + 1), nil
}
