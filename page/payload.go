package page

import (
	"fmt"
	"hash/crc32"

	"github.com/golang/snappy"

	"colfile_go/header"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// DecodePayload decompresses a page payload according to its header and
// verifies the declared uncompressed size and, when present, the checksum.
// With CodecNone the input slice is returned as is.
func DecodePayload(h *header.PageHeader, data []byte) ([]byte, error) {
	var out []byte
	var err error
	switch h.Codec {
	case header.CodecNone:
		out = data
	case header.CodecSnappy:
		out, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruption, err)
		}
	default:
		return nil, fmt.Errorf("%w: invalid codec %d", ErrCorruption, h.Codec)
	}

	if len(out) != h.UncompressedPageSize {
		return nil, fmt.Errorf("%w: uncompressed size %d, header declares %d",
			ErrCorruption, len(out), h.UncompressedPageSize)
	}
	if h.Crc != 0 {
		if checksum := crc32.Checksum(out, castagnoli); checksum != h.Crc {
			return nil, fmt.Errorf("%w: incorrect checksum, expected %v got %v",
				ErrCorruption, h.Crc, checksum)
		}
	}
	return out, nil
}
