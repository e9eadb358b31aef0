package book

import (
	"sort"

	"github.com/emirpasic/gods/trees/redblacktree"

	"pricemodeling/internal/schema"
)

// Builder folds a merged tops stream into consolidated snapshots. It keeps
// the latest three-level quote per venue; every update fully replaces that
// venue's entry and triggers a re-aggregation of the cross-venue book.
type Builder struct {
	latest   map[uint64]schema.TopsRecord
	lastBids []schema.SnapshotLevel
	lastAsks []schema.SnapshotLevel
}

// NewBuilder returns an empty builder; state lives for one symbol's stream.
func NewBuilder() *Builder {
	return &Builder{latest: make(map[uint64]schema.TopsRecord)}
}

// Update absorbs one venue-tagged tops record. It returns the new
// consolidated snapshot when the aggregated book is non-empty and differs
// structurally from the previously returned one.
func (b *Builder) Update(e schema.MergedTopsEntry) (schema.Snapshot, bool) {
	b.latest[e.FeedID] = e.Tops

	bids, asks := b.aggregate()
	if len(bids) == 0 && len(asks) == 0 {
		return schema.Snapshot{}, false
	}
	if schema.LevelsEqual(bids, b.lastBids) && schema.LevelsEqual(asks, b.lastAsks) {
		return schema.Snapshot{}, false
	}

	b.lastBids, b.lastAsks = bids, asks
	return schema.Snapshot{Ts: e.Tops.Ts, Bids: bids, Asks: asks}, true
}

func (b *Builder) aggregate() (bids, asks []schema.SnapshotLevel) {
	bidTree := redblacktree.NewWith(descendingPrice)
	askTree := redblacktree.NewWith(ascendingPrice)

	for feedID, rec := range b.latest {
		for _, l := range rec.Levels {
			if l.HasBid() {
				accumulate(bidTree, l.BidPrice, schema.VenueQty{Qty: l.BidQty, FeedID: feedID})
			}
			if l.HasAsk() {
				accumulate(askTree, l.AskPrice, schema.VenueQty{Qty: l.AskQty, FeedID: feedID})
			}
		}
	}

	return takeBest(bidTree), takeBest(askTree)
}

func accumulate(tree *redblacktree.Tree, price int64, v schema.VenueQty) {
	if existing, found := tree.Get(price); found {
		tree.Put(price, append(existing.([]schema.VenueQty), v))
		return
	}
	tree.Put(price, []schema.VenueQty{v})
}

// takeBest walks the price tree in comparator order and keeps the three
// best levels, each with its venues ordered ascending by (feed id, qty)
// so equal books always serialize identically.
func takeBest(tree *redblacktree.Tree) []schema.SnapshotLevel {
	var levels []schema.SnapshotLevel
	it := tree.Iterator()
	for it.Next() && len(levels) < schema.BookLevels {
		venues := it.Value().([]schema.VenueQty)
		sort.Slice(venues, func(i, j int) bool {
			if venues[i].FeedID != venues[j].FeedID {
				return venues[i].FeedID < venues[j].FeedID
			}
			return venues[i].Qty < venues[j].Qty
		})
		levels = append(levels, schema.SnapshotLevel{
			Price:  it.Key().(int64),
			Venues: venues,
		})
	}
	return levels
}

func descendingPrice(a, b interface{}) int {
	x, y := a.(int64), b.(int64)
	switch {
	case x > y:
		return -1
	case x < y:
		return 1
	default:
		return 0
	}
}

func ascendingPrice(a, b interface{}) int {
	x, y := a.(int64), b.(int64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
