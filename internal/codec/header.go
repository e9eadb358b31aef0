package codec

import (
	"encoding/binary"

	"pricemodeling/internal/schema"
)

const FileHeaderSize = 24

// EncodeFileHeader serializes a file header into a fixed-size payload.
func EncodeFileHeader(dst []byte, h schema.FileHeader) []byte {
	if cap(dst) < FileHeaderSize {
		dst = make([]byte, FileHeaderSize)
	} else {
		dst = dst[:FileHeaderSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], h.FeedID)
	binary.LittleEndian.PutUint32(dst[8:12], h.DateInt)
	binary.LittleEndian.PutUint32(dst[12:16], h.Count)
	binary.LittleEndian.PutUint64(dst[16:24], h.SymbolIdx)

	return dst
}

// DecodeFileHeader parses a fixed-size file header payload.
func DecodeFileHeader(src []byte) (schema.FileHeader, bool) {
	if len(src) < FileHeaderSize {
		return schema.FileHeader{}, false
	}
	return schema.FileHeader{
		FeedID:    binary.LittleEndian.Uint64(src[0:8]),
		DateInt:   binary.LittleEndian.Uint32(src[8:12]),
		Count:     binary.LittleEndian.Uint32(src[12:16]),
		SymbolIdx: binary.LittleEndian.Uint64(src[16:24]),
	}, true
}
