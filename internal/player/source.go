package player

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync/atomic"

	"github.com/spf13/afero"
)

// sourceFile is an opened source. Reads go through ReadAt so that a session
// can view the bytes from any offset without sharing a file cursor.
type sourceFile interface {
	io.ReaderAt
	io.Closer
}

// source is something a session can be opened (and reopened on resume) from.
type source interface {
	open() (sourceFile, int64, error)
	name() string
}

// fileSource is a local file.
type fileSource struct {
	fs   afero.Fs
	path string
}

func (s *fileSource) name() string { return s.path }

func (s *fileSource) open() (sourceFile, int64, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrSourceNotFound, s.path)
		}
		return nil, 0, fmt.Errorf("open %s: %w", s.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", s.path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, s.path)
	}
	return f, info.Size(), nil
}

// memorySource is a fully buffered network stream.
type memorySource struct {
	data []byte
}

func (s *memorySource) name() string { return "" }

func (s *memorySource) open() (sourceFile, int64, error) {
	return nopCloser{bytes.NewReader(s.data)}, int64(len(s.data)), nil
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

// trackedReader is the view handed to a decoder. It records the absolute
// byte position of the underlying source in pos. Close is a no-op: the
// session owns the source.
type trackedReader struct {
	r    *io.SectionReader
	base int64
	pos  *atomic.Int64
}

func newTrackedReader(f sourceFile, start, total int64, pos *atomic.Int64) *trackedReader {
	pos.Store(start)
	return &trackedReader{
		r:    io.NewSectionReader(f, start, total-start),
		base: start,
		pos:  pos,
	}
}

func (t *trackedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.pos.Add(int64(n))
	return n, err
}

func (t *trackedReader) Seek(offset int64, whence int) (int64, error) {
	n, err := t.r.Seek(offset, whence)
	if err == nil {
		t.pos.Store(t.base + n)
	}
	return n, err
}

func (t *trackedReader) Close() error { return nil }

// readAllLimited drains r, failing once more than limit bytes arrive.
func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrStreamTooLarge, limit)
	}
	return data, nil
}
