// Package fileutil provides file system utilities: atomic writes and
// size-bounded reads.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// AtomicWriteFile writes data to a file atomically using a temp file +
// rename pattern, so an interrupted write leaves any previous file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter; because
// the temp file is chmodded before the rename, the file never exists with
// broader permissions than requested.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Temp file in the same directory: rename is only atomic within one
	// filesystem.
	tmp, err := os.CreateTemp(dir, ".vaultconfig-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Only remove if the rename did not happen.
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// Uses 2-space indentation and appends a trailing newline for POSIX compliance.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	data = append(data, '\n')
	return AtomicWriteFile(path, data, perm)
}
