package magic

import (
	"errors"
	"io"
	"os"
)

// ReadPrefix returns the first min(size of file, maxSize) bytes of the file
// at path. The read is repeated until that many bytes arrive, so short reads
// from the underlying file only end it early at EOF, for instance when the
// file shrinks after it was stat'ed.
func ReadPrefix(path string, maxSize int) ([]byte, error) {
	if maxSize < 0 {
		maxSize = 0
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Op: "open", Path: path, Kind: ErrIO, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &SourceError{Op: "stat", Path: path, Kind: ErrIO, Err: err}
	}

	size := int64(maxSize)
	if info.Size() < size {
		size = info.Size()
	}

	buf := make([]byte, size)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, &SourceError{Op: "read", Path: path, Kind: ErrIO, Err: err}
	}
	return buf[:n], nil
}
