package codec

import (
	"encoding/binary"
	"math"

	"pricemodeling/internal/schema"
)

const ImpactRecordSize = 36

// EncodeImpact serializes an impact record. The sequence number is carried
// as 32 bits on this format; the upper half of the source sequence is
// dropped at the call site.
func EncodeImpact(dst []byte, r schema.ImpactRecord) []byte {
	if cap(dst) < ImpactRecordSize {
		dst = make([]byte, ImpactRecordSize)
	} else {
		dst = dst[:ImpactRecordSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], r.Ts)
	binary.LittleEndian.PutUint32(dst[8:12], r.SeqNo)
	binary.LittleEndian.PutUint64(dst[12:20], math.Float64bits(r.BidPrice))
	binary.LittleEndian.PutUint32(dst[20:24], r.BidLevels)
	binary.LittleEndian.PutUint64(dst[24:32], math.Float64bits(r.AskPrice))
	binary.LittleEndian.PutUint32(dst[32:36], r.AskLevels)

	return dst
}

// DecodeImpact parses an impact record payload.
func DecodeImpact(src []byte) (schema.ImpactRecord, bool) {
	if len(src) < ImpactRecordSize {
		return schema.ImpactRecord{}, false
	}
	return schema.ImpactRecord{
		Ts:        binary.LittleEndian.Uint64(src[0:8]),
		SeqNo:     binary.LittleEndian.Uint32(src[8:12]),
		BidPrice:  math.Float64frombits(binary.LittleEndian.Uint64(src[12:20])),
		BidLevels: binary.LittleEndian.Uint32(src[20:24]),
		AskPrice:  math.Float64frombits(binary.LittleEndian.Uint64(src[24:32])),
		AskLevels: binary.LittleEndian.Uint32(src[32:36]),
	}, true
}
