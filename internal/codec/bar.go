package codec

import (
	"encoding/binary"
	"math"

	"pricemodeling/internal/schema"
)

const (
	TradeBarSize = 44
	QuoteBarSize = 40
)

// EncodeTradeBar serializes a trade-driven OHLCV bar. On disk the float
// fields run high, low, open, close after the bucket timestamp.
func EncodeTradeBar(dst []byte, b schema.TradeBar) []byte {
	if cap(dst) < TradeBarSize {
		dst = make([]byte, TradeBarSize)
	} else {
		dst = dst[:TradeBarSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], b.TsSec)
	binary.LittleEndian.PutUint64(dst[8:16], math.Float64bits(b.High))
	binary.LittleEndian.PutUint64(dst[16:24], math.Float64bits(b.Low))
	binary.LittleEndian.PutUint64(dst[24:32], math.Float64bits(b.Open))
	binary.LittleEndian.PutUint64(dst[32:40], math.Float64bits(b.Close))
	binary.LittleEndian.PutUint32(dst[40:44], uint32(b.Volume))

	return dst
}

// DecodeTradeBar parses a trade-driven bar payload.
func DecodeTradeBar(src []byte) (schema.TradeBar, bool) {
	if len(src) < TradeBarSize {
		return schema.TradeBar{}, false
	}
	return schema.TradeBar{
		TsSec:  binary.LittleEndian.Uint64(src[0:8]),
		High:   math.Float64frombits(binary.LittleEndian.Uint64(src[8:16])),
		Low:    math.Float64frombits(binary.LittleEndian.Uint64(src[16:24])),
		Open:   math.Float64frombits(binary.LittleEndian.Uint64(src[24:32])),
		Close:  math.Float64frombits(binary.LittleEndian.Uint64(src[32:40])),
		Volume: int32(binary.LittleEndian.Uint32(src[40:44])),
	}, true
}

// EncodeQuoteBar serializes a quote-driven OHLC bar. Unlike trade bars the
// float fields run open, high, low, close; both orders are wire contracts.
func EncodeQuoteBar(dst []byte, b schema.QuoteBar) []byte {
	if cap(dst) < QuoteBarSize {
		dst = make([]byte, QuoteBarSize)
	} else {
		dst = dst[:QuoteBarSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], b.TsSec)
	binary.LittleEndian.PutUint64(dst[8:16], math.Float64bits(b.Open))
	binary.LittleEndian.PutUint64(dst[16:24], math.Float64bits(b.High))
	binary.LittleEndian.PutUint64(dst[24:32], math.Float64bits(b.Low))
	binary.LittleEndian.PutUint64(dst[32:40], math.Float64bits(b.Close))

	return dst
}

// DecodeQuoteBar parses a quote-driven bar payload.
func DecodeQuoteBar(src []byte) (schema.QuoteBar, bool) {
	if len(src) < QuoteBarSize {
		return schema.QuoteBar{}, false
	}
	return schema.QuoteBar{
		TsSec: binary.LittleEndian.Uint64(src[0:8]),
		Open:  math.Float64frombits(binary.LittleEndian.Uint64(src[8:16])),
		High:  math.Float64frombits(binary.LittleEndian.Uint64(src[16:24])),
		Low:   math.Float64frombits(binary.LittleEndian.Uint64(src[24:32])),
		Close: math.Float64frombits(binary.LittleEndian.Uint64(src[32:40])),
	}, true
}
