package codec

import (
	"encoding/binary"

	"pricemodeling/internal/schema"
)

// MergedTopsEntrySize covers the venue prefix plus the embedded tops record.
const MergedTopsEntrySize = 8 + TopsRecordSize

// MergedFillEntrySize covers the venue prefix plus the embedded fill record.
const MergedFillEntrySize = 8 + FillRecordSize

// EncodeMergedTops serializes a venue-tagged tops record.
func EncodeMergedTops(dst []byte, e schema.MergedTopsEntry) []byte {
	if cap(dst) < MergedTopsEntrySize {
		dst = make([]byte, MergedTopsEntrySize)
	} else {
		dst = dst[:MergedTopsEntrySize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], e.FeedID)
	EncodeTops(dst[8:8], e.Tops)

	return dst
}

// DecodeMergedTops parses a venue-tagged tops record payload.
func DecodeMergedTops(src []byte) (schema.MergedTopsEntry, bool) {
	if len(src) < MergedTopsEntrySize {
		return schema.MergedTopsEntry{}, false
	}
	tops, ok := DecodeTops(src[8:])
	if !ok {
		return schema.MergedTopsEntry{}, false
	}
	return schema.MergedTopsEntry{
		FeedID: binary.LittleEndian.Uint64(src[0:8]),
		Tops:   tops,
	}, true
}
