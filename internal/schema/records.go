package schema

// FileHeader leads every capture, merged and processed file. Count is the
// number of records that follow; streaming writers patch it in place after
// the last record.
type FileHeader struct {
	FeedID    uint64
	DateInt   uint32
	Count     uint32
	SymbolIdx uint64
}

// FillRecord is one trade execution from a venue capture. The bar
// aggregator consumes Ts, TradePrice and TradeQty; everything else is
// carried opaquely through merges.
type FillRecord struct {
	Ts                  uint64
	SeqNo               uint64
	RestingOrderID      uint64
	WasHidden           bool
	TradePrice          int64
	TradeQty            uint32
	ExecutionID         uint64
	RestingOriginalQty  uint32
	RestingRemainingQty uint32
	RestingLastUpdateTs uint64
	RestingIsBid        bool
	RestingPrice        int64
	RestingQty          uint32
	OpposingPrice       int64
	OpposingQty         uint32
	RestingOrderCount   uint32
}

// TopLevel is one rank of a three-level quote.
type TopLevel struct {
	BidPrice int64
	AskPrice int64
	BidQty   uint32
	AskQty   uint32
}

// HasBid reports whether the bid side of the level carries data. A level
// with zero price or zero quantity is absent and surfaces as a missing
// observation downstream.
func (l TopLevel) HasBid() bool {
	return l.BidPrice != 0 && l.BidQty != 0
}

// HasAsk reports whether the ask side of the level carries data.
func (l TopLevel) HasAsk() bool {
	return l.AskPrice != 0 && l.AskQty != 0
}

// TopsRecord is a three-level quote observation from one venue.
type TopsRecord struct {
	Ts     uint64
	SeqNo  uint64
	Levels [BookLevels]TopLevel
}

// MergedTopsEntry is a tops record tagged with the venue it came from.
type MergedTopsEntry struct {
	FeedID uint64
	Tops   TopsRecord
}

// TradeBar is a per-second OHLCV aggregate over trade prints.
type TradeBar struct {
	TsSec  uint64
	High   float64
	Low    float64
	Open   float64
	Close  float64
	Volume int32
}

// QuoteBar is a per-second OHLC aggregate over one quote level series.
// Quote bars carry no volume.
type QuoteBar struct {
	TsSec uint64
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// ImpactRecord holds the hypothetical execution outcome for both sides of
// one tops observation. A NaN price with non-zero levels means the visible
// book could not fill the target quantity.
type ImpactRecord struct {
	Ts        uint64
	SeqNo     uint32
	BidPrice  float64
	BidLevels uint32
	AskPrice  float64
	AskLevels uint32
}

// Equal compares two impact records on their derived fields with NaN-aware
// price equality. Timestamps and sequence numbers are ignored.
func (r ImpactRecord) Equal(o ImpactRecord) bool {
	return FloatEqualNaN(r.BidPrice, o.BidPrice) &&
		r.BidLevels == o.BidLevels &&
		FloatEqualNaN(r.AskPrice, o.AskPrice) &&
		r.AskLevels == o.AskLevels
}

// VenueQty is one venue's contribution to a consolidated price level.
type VenueQty struct {
	Qty    uint32
	FeedID uint64
}

// SnapshotLevel is one consolidated price level and the venues quoting it,
// ordered ascending by (feed id, quantity).
type SnapshotLevel struct {
	Price  int64
	Venues []VenueQty
}

// Equal reports structural equality of two levels.
func (l SnapshotLevel) Equal(o SnapshotLevel) bool {
	if l.Price != o.Price || len(l.Venues) != len(o.Venues) {
		return false
	}
	for i := range l.Venues {
		if l.Venues[i] != o.Venues[i] {
			return false
		}
	}
	return true
}

// Snapshot is a consolidated cross-venue top-of-book at one instant.
// Bids are ordered by price descending, asks ascending; at most three
// levels per side.
type Snapshot struct {
	Ts   uint64
	Bids []SnapshotLevel
	Asks []SnapshotLevel
}

// LevelsEqual reports structural equality of two level sequences.
func LevelsEqual(a, b []SnapshotLevel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
