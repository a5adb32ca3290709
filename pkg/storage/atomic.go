package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// WriteFileAtomic writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partially written
// document. The rename is the durability boundary callers rely on.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		err := cause
		if removeErr := os.Remove(tmpName); removeErr != nil && !os.IsNotExist(removeErr) {
			err = multierr.Append(err, removeErr)
		}
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		err = multierr.Append(fmt.Errorf("write temp file: %w", err), tmp.Close())
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		err = multierr.Append(fmt.Errorf("sync temp file: %w", err), tmp.Close())
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(fmt.Errorf("close temp file: %w", err))
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return cleanup(fmt.Errorf("chmod temp file: %w", err))
	}
	if err := os.Rename(tmpName, path); err != nil {
		return cleanup(fmt.Errorf("rename temp file: %w", err))
	}
	return nil
}
