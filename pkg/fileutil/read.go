package fileutil

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// MaxFileSize is the maximum file size ReadFileWithLimit will read (8MB).
// Config entries are small; the cap prevents memory exhaustion when the
// store directory contains an unexpectedly large file.
const MaxFileSize = 8 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file of at most MaxFileSize bytes.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s", path)
	}
	return data, nil
}
