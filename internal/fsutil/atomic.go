// Package fsutil holds filesystem helpers shared by the on-disk stores.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFileAtomic replaces path with data by writing a temp file in the same
// directory and renaming it over the target, so readers never see a partial
// record. The parent directory is created with mode 0700.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmpFile, err := afero.TempFile(fs, dir, filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		fs.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := tmpFile.Close(); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := fs.Chmod(tmpPath, perm); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", path, err)
	}

	return nil
}

// ReadFile reads path, reporting a missing file as (nil, false, nil).
func ReadFile(fs afero.Fs, path string) ([]byte, bool, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
