package impact

import (
	"math"

	"pricemodeling/internal/schema"
)

// SideExecution walks one side of a three-level book for a target
// quantity. Each present level contributes min(remaining, level qty)
// shares at its price; the walk stops at the first absent level. A fully
// filled target yields the volume-weighted price and the number of levels
// that contributed; an unfillable one yields NaN and the number of present
// levels touched before exhaustion.
func SideExecution(target uint32, prices [schema.BookLevels]int64, qtys [schema.BookLevels]uint32) (float64, uint32) {
	if target == 0 {
		return math.NaN(), 0
	}

	var (
		value  float64
		filled uint32
		levels uint32
	)
	for i := 0; i < schema.BookLevels; i++ {
		if filled == target {
			break
		}
		if prices[i] == 0 || qtys[i] == 0 {
			break
		}
		levels++

		take := target - filled
		if qtys[i] < take {
			take = qtys[i]
		}
		value += float64(take) * schema.PriceFloat(prices[i])
		filled += take
	}

	if filled < target {
		return math.NaN(), levels
	}
	return value / float64(target), levels
}

// FromTops computes both sides' execution outcome for one tops record.
func FromTops(rec schema.TopsRecord, target uint32) schema.ImpactRecord {
	var bidPrices, askPrices [schema.BookLevels]int64
	var bidQtys, askQtys [schema.BookLevels]uint32
	for i, l := range rec.Levels {
		bidPrices[i], bidQtys[i] = l.BidPrice, l.BidQty
		askPrices[i], askQtys[i] = l.AskPrice, l.AskQty
	}

	out := schema.ImpactRecord{Ts: rec.Ts, SeqNo: uint32(rec.SeqNo)}
	out.BidPrice, out.BidLevels = SideExecution(target, bidPrices, bidQtys)
	out.AskPrice, out.AskLevels = SideExecution(target, askPrices, askQtys)
	return out
}

// Dedup suppresses impact records whose derived fields match the last
// written one. The first record always passes.
type Dedup struct {
	last schema.ImpactRecord
	seen bool
}

// Keep reports whether the record should be written and, if so, remembers
// it as the new comparison point.
func (d *Dedup) Keep(r schema.ImpactRecord) bool {
	if d.seen && r.Equal(d.last) {
		return false
	}
	d.last = r
	d.seen = true
	return true
}
