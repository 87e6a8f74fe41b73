package blob

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFile replaces path with data. The data goes to a temporary file in the
// same directory first, so a failed write never leaves a partial file behind.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tempFile, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() {
		if err != nil {
			_ = tempFile.Close()
			_ = os.Remove(tempFile.Name())
		}
	}()

	if _, err = tempFile.Write(data); err != nil {
		return errors.Wrap(err, "write")
	}
	if err = tempFile.Sync(); err != nil {
		return errors.Wrap(err, "sync")
	}
	if err = tempFile.Chmod(perm); err != nil {
		return errors.Wrap(err, "chmod")
	}
	if err = tempFile.Close(); err != nil {
		return errors.Wrap(err, "close")
	}
	if err = os.Rename(tempFile.Name(), path); err != nil {
		return errors.Wrap(err, "rename")
	}

	return nil
}
