package mdg

import (
	"github.com/yanun0323/errors"

	"pricemodeling/internal/schema"
)

// Generator produces deterministic synthetic capture data for one venue.
// The walk is a pure function of the seed, so fixtures regenerate
// bit-identically across runs and machines.
type Generator struct {
	feedID    uint64
	basePrice int64
	spread    int64
	baseQty   uint32
	state     uint64
}

// NewGenerator seeds a generator for one venue. Prices are nanos.
func NewGenerator(feedID uint64, basePrice, spread int64, baseQty uint32) (*Generator, error) {
	if basePrice <= 0 {
		return nil, errors.New("base price must be positive")
	}
	if spread <= 0 {
		spread = schema.NanosPerUnit / 100
	}
	if baseQty == 0 {
		baseQty = 1
	}
	return &Generator{
		feedID:    feedID,
		basePrice: basePrice,
		spread:    spread,
		baseQty:   baseQty,
		state:     feedID*0x9e3779b97f4a7c15 + 0x2545f4914f6cdd1d,
	}, nil
}

// Fills produces n synthetic trades for one symbol starting at startTs,
// a few hundred milliseconds apart so several land in each bar bucket.
func (g *Generator) Fills(symbolIdx uint64, n int, startTs uint64) []schema.FillRecord {
	g.reseed(symbolIdx)
	price := g.basePrice
	out := make([]schema.FillRecord, 0, n)
	ts := startTs
	for i := 0; i < n; i++ {
		price = g.step(price)
		qty := g.baseQty + uint32(g.next()%5)
		out = append(out, schema.FillRecord{
			Ts:                  ts,
			SeqNo:               uint64(i + 1),
			RestingOrderID:      g.feedID<<32 | uint64(i),
			TradePrice:          price,
			TradeQty:            qty,
			ExecutionID:         symbolIdx<<16 | uint64(i),
			RestingOriginalQty:  qty * 2,
			RestingRemainingQty: qty,
			RestingLastUpdateTs: ts,
			RestingIsBid:        g.next()%2 == 0,
			RestingPrice:        price,
			RestingQty:          qty,
			OpposingPrice:       price + g.spread,
			OpposingQty:         qty,
			RestingOrderCount:   1 + uint32(g.next()%3),
		})
		ts += 200_000_000 + g.next()%400_000_000
	}
	return out
}

// Tops produces n synthetic three-level quotes for one symbol. The third
// level drops out now and then so absence paths get exercised.
func (g *Generator) Tops(symbolIdx uint64, n int, startTs uint64) []schema.TopsRecord {
	g.reseed(symbolIdx)
	mid := g.basePrice
	out := make([]schema.TopsRecord, 0, n)
	ts := startTs
	for i := 0; i < n; i++ {
		mid = g.step(mid)
		rec := schema.TopsRecord{Ts: ts, SeqNo: uint64(i + 1)}
		for level := 0; level < schema.BookLevels; level++ {
			tick := g.spread * int64(level+1)
			rec.Levels[level] = schema.TopLevel{
				BidPrice: mid - tick,
				AskPrice: mid + tick,
				BidQty:   g.baseQty + uint32(g.next()%9),
				AskQty:   g.baseQty + uint32(g.next()%9),
			}
		}
		if g.next()%7 == 0 {
			rec.Levels[2] = schema.TopLevel{}
		}
		out = append(out, rec)
		ts += 150_000_000 + g.next()%350_000_000
	}
	return out
}

func (g *Generator) reseed(symbolIdx uint64) {
	g.state = g.feedID*0x9e3779b97f4a7c15 ^ (symbolIdx+1)*0xbf58476d1ce4e5b9
	if g.state == 0 {
		g.state = 1
	}
}

func (g *Generator) next() uint64 {
	g.state ^= g.state << 13
	g.state ^= g.state >> 7
	g.state ^= g.state << 17
	return g.state
}

func (g *Generator) step(price int64) int64 {
	delta := int64(g.next()%uint64(2*g.spread+1)) - g.spread
	price += delta
	min := g.basePrice / 2
	if price < min {
		price = min
	}
	return price
}
