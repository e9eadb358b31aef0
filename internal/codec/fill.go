package codec

import (
	"encoding/binary"

	"pricemodeling/internal/schema"
)

// FillRecordSize is the packed on-disk size. The two one-byte flags keep it
// off the natural alignment grid; the layout is byte-for-byte fixed.
const FillRecordSize = 90

// EncodeFill serializes a fill record into a fixed-size payload.
func EncodeFill(dst []byte, f schema.FillRecord) []byte {
	if cap(dst) < FillRecordSize {
		dst = make([]byte, FillRecordSize)
	} else {
		dst = dst[:FillRecordSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], f.Ts)
	binary.LittleEndian.PutUint64(dst[8:16], f.SeqNo)
	binary.LittleEndian.PutUint64(dst[16:24], f.RestingOrderID)
	dst[24] = encodeBool(f.WasHidden)
	binary.LittleEndian.PutUint64(dst[25:33], uint64(f.TradePrice))
	binary.LittleEndian.PutUint32(dst[33:37], f.TradeQty)
	binary.LittleEndian.PutUint64(dst[37:45], f.ExecutionID)
	binary.LittleEndian.PutUint32(dst[45:49], f.RestingOriginalQty)
	binary.LittleEndian.PutUint32(dst[49:53], f.RestingRemainingQty)
	binary.LittleEndian.PutUint64(dst[53:61], f.RestingLastUpdateTs)
	dst[61] = encodeBool(f.RestingIsBid)
	binary.LittleEndian.PutUint64(dst[62:70], uint64(f.RestingPrice))
	binary.LittleEndian.PutUint32(dst[70:74], f.RestingQty)
	binary.LittleEndian.PutUint64(dst[74:82], uint64(f.OpposingPrice))
	binary.LittleEndian.PutUint32(dst[82:86], f.OpposingQty)
	binary.LittleEndian.PutUint32(dst[86:90], f.RestingOrderCount)

	return dst
}

// DecodeFill parses a fixed-size fill record payload.
func DecodeFill(src []byte) (schema.FillRecord, bool) {
	if len(src) < FillRecordSize {
		return schema.FillRecord{}, false
	}
	return schema.FillRecord{
		Ts:                  binary.LittleEndian.Uint64(src[0:8]),
		SeqNo:               binary.LittleEndian.Uint64(src[8:16]),
		RestingOrderID:      binary.LittleEndian.Uint64(src[16:24]),
		WasHidden:           src[24] != 0,
		TradePrice:          int64(binary.LittleEndian.Uint64(src[25:33])),
		TradeQty:            binary.LittleEndian.Uint32(src[33:37]),
		ExecutionID:         binary.LittleEndian.Uint64(src[37:45]),
		RestingOriginalQty:  binary.LittleEndian.Uint32(src[45:49]),
		RestingRemainingQty: binary.LittleEndian.Uint32(src[49:53]),
		RestingLastUpdateTs: binary.LittleEndian.Uint64(src[53:61]),
		RestingIsBid:        src[61] != 0,
		RestingPrice:        int64(binary.LittleEndian.Uint64(src[62:70])),
		RestingQty:          binary.LittleEndian.Uint32(src[70:74]),
		OpposingPrice:       int64(binary.LittleEndian.Uint64(src[74:82])),
		OpposingQty:         binary.LittleEndian.Uint32(src[82:86]),
		RestingOrderCount:   binary.LittleEndian.Uint32(src[86:90]),
	}, true
}

func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}
