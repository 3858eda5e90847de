package stream

import (
	"fmt"
	"os"
)

// SeekableStream is the random-access byte source a page reader scans.
// Implementations are not safe for concurrent use.
type SeekableStream interface {
	// ReadAtFully reads exactly len(p) bytes starting at off. A short read
	// is an error; p is unspecified on failure.
	ReadAtFully(p []byte, off int64) error
	// Seek repositions the cursor that Peek reads from.
	Seek(off int64)
	// Peek returns a read-only view of the next n bytes at the cursor. The
	// view stays valid only until the next call that moves the cursor.
	Peek(n int) ([]byte, error)
}

// FileStream reads a local file. Peek is served from an internal scratch
// buffer, so the returned view is only valid until the next Peek.
type FileStream struct {
	f       *os.File
	pos     int64
	peekBuf []byte
}

func NewFileStream(f *os.File) *FileStream {
	return &FileStream{f: f}
}

func (s *FileStream) ReadAtFully(p []byte, off int64) error {
	n, err := s.f.ReadAt(p, off)
	if err != nil {
		return err
	}
	if n < len(p) {
		return fmt.Errorf("short read: got %d of %d bytes", n, len(p))
	}
	return nil
}

func (s *FileStream) Seek(off int64) {
	s.pos = off
}

func (s *FileStream) Peek(n int) ([]byte, error) {
	if cap(s.peekBuf) < n {
		s.peekBuf = make([]byte, n)
	}
	buf := s.peekBuf[:n]
	if err := s.ReadAtFully(buf, s.pos); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *FileStream) Close() error {
	return s.f.Close()
}
