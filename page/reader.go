package page

import (
	"errors"
	"fmt"

	"colfile_go/header"
	"colfile_go/stream"
)

const headerInitSize = 1024

// DefaultMaxHeaderSize caps how far NextHeader will grow its decode buffer
// before declaring the region corrupt.
const DefaultMaxHeaderSize = 16 * 1024

var (
	// ErrEndOfData reports that the region holds no further headers. It is
	// the expected terminal condition, not a failure.
	ErrEndOfData = errors.New("end of data")
	// ErrCorruption reports that no well-formed header could be delimited
	// at the expected offset within the allowed bounds.
	ErrCorruption = errors.New("corruption")
	// ErrInternal reports caller misuse: an operation out of the documented
	// order, or a read past the current page. The reader must not be used
	// again after it.
	ErrInternal = errors.New("internal")
)

// DecodeHeader parses one page header from the start of buf, reporting the
// bytes it consumed. An error means buf does not contain a complete header,
// which the reader treats as "try again with more bytes", not as fatal.
type DecodeHeader func(buf []byte) (header.PageHeader, int, error)

// Reader walks the pages of one column chunk region sequentially: decode a
// header, consume exactly CompressedPageSize bytes of payload through
// ReadBytes/SkipBytes/Peek, decode the next header. It does not own the
// stream; the caller keeps it alive for the reader's lifetime. Not safe
// for concurrent use.
type Reader struct {
	stream stream.SeekableStream
	decode DecodeHeader

	offset        uint64
	finishOffset  uint64
	nextHeaderPos uint64
	maxHeaderSize uint64

	cur header.PageHeader
}

// NewReader scopes a reader to the region [startOffset, startOffset+length)
// of s. maxHeaderSize <= 0 selects DefaultMaxHeaderSize.
func NewReader(s stream.SeekableStream, decode DecodeHeader, startOffset, length uint64, maxHeaderSize int) *Reader {
	if maxHeaderSize <= 0 {
		maxHeaderSize = DefaultMaxHeaderSize
	}
	return &Reader{
		stream:        s,
		decode:        decode,
		offset:        startOffset,
		finishOffset:  startOffset + length,
		nextHeaderPos: startOffset,
		maxHeaderSize: uint64(maxHeaderSize),
	}
}

// Header returns the most recently decoded page header. It is overwritten
// by every successful NextHeader call.
func (r *Reader) Header() *header.PageHeader {
	return &r.cur
}

// NextHeader decodes the header of the next page. The previous page's
// payload must have been fully consumed. Returns ErrEndOfData once the
// region is exhausted.
//
// The serialized header length is unknown up front, so the reader guesses:
// read a small buffer, attempt a decode, and quadruple the buffer on
// failure until the decode succeeds or the trial size passes the cap.
func (r *Reader) NextHeader() error {
	if r.offset != r.nextHeaderPos {
		return fmt.Errorf("%w: parse page header in wrong position, offset=%d expect=%d",
			ErrInternal, r.offset, r.nextHeaderPos)
	}
	if r.offset >= r.finishOffset {
		return ErrEndOfData
	}

	nbytes := uint64(headerInitSize)
	remaining := r.finishOffset - r.offset
	var buf []byte

	for {
		if nbytes > remaining {
			nbytes = remaining
		}
		if uint64(cap(buf)) < nbytes {
			buf = make([]byte, nbytes)
		}
		buf = buf[:nbytes]
		if err := r.stream.ReadAtFully(buf, int64(r.offset)); err != nil {
			return err
		}

		hdr, headerLength, err := r.decode(buf)
		if err == nil {
			r.cur = hdr
			r.offset += uint64(headerLength)
			r.nextHeaderPos = r.offset + uint64(hdr.CompressedPageSize)
			return nil
		}

		if nbytes > r.maxHeaderSize || r.offset+nbytes >= r.finishOffset {
			return fmt.Errorf("%w: failed to decode page header", ErrCorruption)
		}
		nbytes <<= 2
	}
}

// ReadBytes fills p with payload bytes at the cursor. The request must not
// cross into the next page's header.
func (r *Reader) ReadBytes(p []byte) error {
	if r.offset+uint64(len(p)) > r.nextHeaderPos {
		return fmt.Errorf("%w: size to read exceeds page size", ErrInternal)
	}
	if err := r.stream.ReadAtFully(p, int64(r.offset)); err != nil {
		return err
	}
	r.offset += uint64(len(p))
	return nil
}

// SkipBytes advances the cursor past size payload bytes without reading.
func (r *Reader) SkipBytes(size int) error {
	if r.offset+uint64(size) > r.nextHeaderPos {
		return fmt.Errorf("%w: size to skip exceeds page size", ErrInternal)
	}
	r.offset += uint64(size)
	return nil
}

// Peek returns a borrowed view of the next size payload bytes, valid until
// the stream's position next changes. The cursor advances only when the
// underlying peek succeeds, so a failed Peek can be retried.
func (r *Reader) Peek(size int) ([]byte, error) {
	if r.offset+uint64(size) > r.nextHeaderPos {
		return nil, fmt.Errorf("%w: size to peek exceeds page size", ErrInternal)
	}
	r.stream.Seek(int64(r.offset))
	b, err := r.stream.Peek(size)
	if err != nil {
		return nil, err
	}
	r.offset += uint64(size)
	return b, nil
}
