package header

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Page types.
const (
	TypeData       = 0
	TypeIndex      = 1
	TypeDictionary = 2
)

// Payload codecs.
const (
	CodecNone   = 0
	CodecSnappy = 1
)

// Field tags of the compact header encoding. A header is a sequence of
// (tag, value) pairs ended by tagStop; integer fields are uvarints, byte
// fields are uvarint-length-prefixed. The encoding is self-delimiting only
// once a full decode succeeds, which is why readers have to guess how many
// bytes to hand Decode.
const (
	tagStop             = 0
	tagType             = 1
	tagUncompressedSize = 2
	tagCompressedSize   = 3
	tagCrc              = 4
	tagNumValues        = 5
	tagCodec            = 6
	tagMinValue         = 7
	tagMaxValue         = 8
)

// PageHeader describes the page payload that follows it on disk. The
// reader only interprets CompressedPageSize; everything else is carried
// for the layers above (decompression, value decoding, pruning).
type PageHeader struct {
	Type                 int
	UncompressedPageSize int
	CompressedPageSize   int
	Crc                  uint32
	NumValues            int
	Codec                int

	// Optional min/max statistics. These are raw encoded values and can be
	// arbitrarily large, so real headers are not bounded by a small fixed
	// size.
	MinValue []byte
	MaxValue []byte
}

var errShortBuffer = errors.New("buffer too short for page header")

// Decode parses a header from the start of buf and reports how many bytes
// it occupied. An error means buf does not hold a complete valid header;
// it does not distinguish truncation from garbage.
func Decode(buf []byte) (PageHeader, int, error) {
	var h PageHeader
	offset := 0
	for {
		if offset >= len(buf) {
			return PageHeader{}, 0, errShortBuffer
		}
		tag := buf[offset]
		offset++
		if tag == tagStop {
			return h, offset, nil
		}

		switch tag {
		case tagMinValue, tagMaxValue:
			n, consumed := binary.Uvarint(buf[offset:])
			if consumed <= 0 {
				return PageHeader{}, 0, errShortBuffer
			}
			offset += consumed
			if offset+int(n) > len(buf) {
				return PageHeader{}, 0, errShortBuffer
			}
			value := buf[offset : offset+int(n)]
			offset += int(n)
			if tag == tagMinValue {
				h.MinValue = value
			} else {
				h.MaxValue = value
			}
		case tagType, tagUncompressedSize, tagCompressedSize, tagCrc, tagNumValues, tagCodec:
			v, consumed := binary.Uvarint(buf[offset:])
			if consumed <= 0 {
				return PageHeader{}, 0, errShortBuffer
			}
			offset += consumed
			switch tag {
			case tagType:
				h.Type = int(v)
			case tagUncompressedSize:
				h.UncompressedPageSize = int(v)
			case tagCompressedSize:
				h.CompressedPageSize = int(v)
			case tagCrc:
				h.Crc = uint32(v)
			case tagNumValues:
				h.NumValues = int(v)
			case tagCodec:
				h.Codec = int(v)
			}
		default:
			return PageHeader{}, 0, fmt.Errorf("unknown page header field tag %d", tag)
		}
	}
}

// Encode appends the serialized header to buf and returns the result.
func Encode(buf []byte, h PageHeader) []byte {
	var scratch [binary.MaxVarintLen64]byte
	putUvarint := func(tag byte, v uint64) {
		buf = append(buf, tag)
		n := binary.PutUvarint(scratch[:], v)
		buf = append(buf, scratch[:n]...)
	}
	putBytes := func(tag byte, value []byte) {
		buf = append(buf, tag)
		n := binary.PutUvarint(scratch[:], uint64(len(value)))
		buf = append(buf, scratch[:n]...)
		buf = append(buf, value...)
	}

	putUvarint(tagType, uint64(h.Type))
	putUvarint(tagUncompressedSize, uint64(h.UncompressedPageSize))
	putUvarint(tagCompressedSize, uint64(h.CompressedPageSize))
	if h.Crc != 0 {
		putUvarint(tagCrc, uint64(h.Crc))
	}
	putUvarint(tagNumValues, uint64(h.NumValues))
	if h.Codec != CodecNone {
		putUvarint(tagCodec, uint64(h.Codec))
	}
	if h.MinValue != nil {
		putBytes(tagMinValue, h.MinValue)
	}
	if h.MaxValue != nil {
		putBytes(tagMaxValue, h.MaxValue)
	}
	buf = append(buf, tagStop)
	return buf
}
