package bars

import (
	"math"

	"pricemodeling/internal/schema"
)

// TradeAgg folds a non-decreasing stream of trade prints into per-second
// OHLCV bars. Bars carrying zero volume are never emitted.
type TradeAgg struct {
	cur  schema.TradeBar
	open bool
}

// Push feeds one trade and returns the completed bar of the previous
// bucket, if the trade opened a new one.
func (a *TradeAgg) Push(tsNanos uint64, price float64, qty uint32) (schema.TradeBar, bool) {
	bucket := schema.BucketSec(tsNanos)

	if !a.open {
		a.start(bucket, price, qty)
		return schema.TradeBar{}, false
	}

	if bucket != a.cur.TsSec {
		done := a.cur
		a.start(bucket, price, qty)
		if done.Volume > 0 {
			return done, true
		}
		return schema.TradeBar{}, false
	}

	a.cur.High = math.Max(a.cur.High, price)
	a.cur.Low = math.Min(a.cur.Low, price)
	a.cur.Close = price
	a.cur.Volume += int32(qty)
	return schema.TradeBar{}, false
}

// Flush returns the trailing bar after the stream ends.
func (a *TradeAgg) Flush() (schema.TradeBar, bool) {
	if !a.open || a.cur.Volume <= 0 {
		return schema.TradeBar{}, false
	}
	done := a.cur
	a.open = false
	return done, true
}

func (a *TradeAgg) start(bucket uint64, price float64, qty uint32) {
	a.cur = schema.TradeBar{
		TsSec:  bucket,
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Volume: int32(qty),
	}
	a.open = true
}

// QuoteAgg folds one quote-level price series into per-second OHLC bars.
// Missing observations (NaN) are skipped. At most one bar is emitted per
// bucket: a completed bar whose bucket is at or below the previously
// emitted one is suppressed, so an idle book yields a sparse file and
// emitted buckets stay strictly increasing.
type QuoteAgg struct {
	cur         schema.QuoteBar
	open        bool
	emitted     bool
	lastEmitted uint64
}

// Push feeds one observation and returns the completed bar of the
// previous bucket, if any survived deduplication.
func (a *QuoteAgg) Push(tsNanos uint64, price float64) (schema.QuoteBar, bool) {
	if math.IsNaN(price) {
		return schema.QuoteBar{}, false
	}
	bucket := schema.BucketSec(tsNanos)

	if !a.open {
		a.start(bucket, price)
		return schema.QuoteBar{}, false
	}

	if bucket != a.cur.TsSec {
		done := a.cur
		a.start(bucket, price)
		return a.emit(done)
	}

	a.cur.High = math.Max(a.cur.High, price)
	a.cur.Low = math.Min(a.cur.Low, price)
	a.cur.Close = price
	return schema.QuoteBar{}, false
}

// Flush returns the trailing bar after the stream ends, subject to the
// same per-bucket deduplication.
func (a *QuoteAgg) Flush() (schema.QuoteBar, bool) {
	if !a.open {
		return schema.QuoteBar{}, false
	}
	done := a.cur
	a.open = false
	return a.emit(done)
}

func (a *QuoteAgg) emit(b schema.QuoteBar) (schema.QuoteBar, bool) {
	if a.emitted && b.TsSec <= a.lastEmitted {
		return schema.QuoteBar{}, false
	}
	a.emitted = true
	a.lastEmitted = b.TsSec
	return b, true
}

func (a *QuoteAgg) start(bucket uint64, price float64) {
	a.cur = schema.QuoteBar{TsSec: bucket, Open: price, High: price, Low: price, Close: price}
	a.open = true
}
