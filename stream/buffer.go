package stream

import "fmt"

// BufferStream serves a byte slice it does not own. Peek returns a subslice
// of the backing bytes, so views stay valid as long as the slice does.
type BufferStream struct {
	bytes  []byte
	offset int64
}

func NewBufferStream(bytes []byte) *BufferStream {
	return &BufferStream{
		bytes:  bytes,
		offset: 0,
	}
}

func (s *BufferStream) ReadAtFully(p []byte, off int64) error {
	if off < 0 || off+int64(len(p)) > int64(len(s.bytes)) {
		return fmt.Errorf("read of %d bytes at %d exceeds buffer of %d", len(p), off, len(s.bytes))
	}
	copy(p, s.bytes[off:])
	return nil
}

func (s *BufferStream) Seek(off int64) {
	s.offset = off
}

func (s *BufferStream) Peek(n int) ([]byte, error) {
	if s.offset < 0 || s.offset+int64(n) > int64(len(s.bytes)) {
		return nil, fmt.Errorf("peek of %d bytes at %d exceeds buffer of %d", n, s.offset, len(s.bytes))
	}
	return s.bytes[s.offset : s.offset+int64(n)], nil
}
