package codec

import (
	"encoding/binary"

	"pricemodeling/internal/schema"
)

const (
	TopLevelSize   = 24
	TopsRecordSize = 88
)

// EncodeTops serializes a tops record into a fixed-size payload.
func EncodeTops(dst []byte, t schema.TopsRecord) []byte {
	if cap(dst) < TopsRecordSize {
		dst = make([]byte, TopsRecordSize)
	} else {
		dst = dst[:TopsRecordSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], t.Ts)
	binary.LittleEndian.PutUint64(dst[8:16], t.SeqNo)
	for i, l := range t.Levels {
		off := 16 + i*TopLevelSize
		binary.LittleEndian.PutUint64(dst[off:off+8], uint64(l.BidPrice))
		binary.LittleEndian.PutUint64(dst[off+8:off+16], uint64(l.AskPrice))
		binary.LittleEndian.PutUint32(dst[off+16:off+20], l.BidQty)
		binary.LittleEndian.PutUint32(dst[off+20:off+24], l.AskQty)
	}

	return dst
}

// DecodeTops parses a fixed-size tops record payload.
func DecodeTops(src []byte) (schema.TopsRecord, bool) {
	if len(src) < TopsRecordSize {
		return schema.TopsRecord{}, false
	}
	t := schema.TopsRecord{
		Ts:    binary.LittleEndian.Uint64(src[0:8]),
		SeqNo: binary.LittleEndian.Uint64(src[8:16]),
	}
	for i := range t.Levels {
		off := 16 + i*TopLevelSize
		t.Levels[i] = schema.TopLevel{
			BidPrice: int64(binary.LittleEndian.Uint64(src[off : off+8])),
			AskPrice: int64(binary.LittleEndian.Uint64(src[off+8 : off+16])),
			BidQty:   binary.LittleEndian.Uint32(src[off+16 : off+20]),
			AskQty:   binary.LittleEndian.Uint32(src[off+20 : off+24]),
		}
	}
	return t, true
}
