package book

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

func topsWithBids(ts uint64, bids ...[2]int64) schema.TopsRecord {
	rec := schema.TopsRecord{Ts: ts}
	for i, b := range bids {
		rec.Levels[i].BidPrice = b[0]
		rec.Levels[i].BidQty = uint32(b[1])
	}
	return rec
}

func TestSnapshotAggregation(t *testing.T) {
	b := NewBuilder()

	_, ok := b.Update(schema.MergedTopsEntry{
		FeedID: 1,
		Tops:   topsWithBids(1, [2]int64{100, 10}),
	})
	require.True(t, ok)

	s, ok := b.Update(schema.MergedTopsEntry{
		FeedID: 2,
		Tops:   topsWithBids(2, [2]int64{100, 7}, [2]int64{99, 5}),
	})
	require.True(t, ok)

	require.Len(t, s.Bids, 2)
	require.Equal(t, int64(100), s.Bids[0].Price)
	require.Equal(t, []schema.VenueQty{{Qty: 10, FeedID: 1}, {Qty: 7, FeedID: 2}}, s.Bids[0].Venues)
	require.Equal(t, int64(99), s.Bids[1].Price)
	require.Equal(t, []schema.VenueQty{{Qty: 5, FeedID: 2}}, s.Bids[1].Venues)
}

func TestSnapshotSuppressedWhenUnchanged(t *testing.T) {
	b := NewBuilder()

	entry := schema.MergedTopsEntry{FeedID: 1, Tops: topsWithBids(1, [2]int64{100, 10})}
	_, ok := b.Update(entry)
	require.True(t, ok)

	// Same book again, later timestamp: no new snapshot.
	entry.Tops.Ts = 2
	_, ok = b.Update(entry)
	require.False(t, ok)

	// Quantity change at the same price is a structural change.
	entry.Tops.Ts = 3
	entry.Tops.Levels[0].BidQty = 11
	s, ok := b.Update(entry)
	require.True(t, ok)
	require.Equal(t, uint64(3), s.Ts)
}

func TestSnapshotOrderingAndDepthCap(t *testing.T) {
	b := NewBuilder()

	rec := schema.TopsRecord{Ts: 2}
	rec.Levels[0] = schema.TopLevel{BidPrice: 101, BidQty: 1, AskPrice: 102, AskQty: 1}
	rec.Levels[1] = schema.TopLevel{BidPrice: 100, BidQty: 1, AskPrice: 103, AskQty: 1}
	rec.Levels[2] = schema.TopLevel{BidPrice: 99, BidQty: 1, AskPrice: 104, AskQty: 1}

	other := schema.TopsRecord{Ts: 1}
	other.Levels[0] = schema.TopLevel{BidPrice: 98, BidQty: 2, AskPrice: 105, AskQty: 2}
	other.Levels[1] = schema.TopLevel{BidPrice: 97, BidQty: 2, AskPrice: 106, AskQty: 2}

	// The venue with the worse prices quotes first, so the second update
	// changes the top three levels and yields a new snapshot.
	_, ok := b.Update(schema.MergedTopsEntry{FeedID: 2, Tops: other})
	require.True(t, ok)
	s, ok := b.Update(schema.MergedTopsEntry{FeedID: 1, Tops: rec})
	require.True(t, ok)

	// Five distinct prices per side across venues, capped at three.
	require.Len(t, s.Bids, 3)
	require.Len(t, s.Asks, 3)
	for i := 1; i < len(s.Bids); i++ {
		require.Less(t, s.Bids[i].Price, s.Bids[i-1].Price)
	}
	for i := 1; i < len(s.Asks); i++ {
		require.Greater(t, s.Asks[i].Price, s.Asks[i-1].Price)
	}
	require.Equal(t, int64(101), s.Bids[0].Price)
	require.Equal(t, int64(102), s.Asks[0].Price)
}

func TestVenueReplacementDropsOldLevels(t *testing.T) {
	b := NewBuilder()

	_, ok := b.Update(schema.MergedTopsEntry{FeedID: 1, Tops: topsWithBids(1, [2]int64{100, 10})})
	require.True(t, ok)

	// The venue moves its bid; the old price must vanish, not linger.
	s, ok := b.Update(schema.MergedTopsEntry{FeedID: 1, Tops: topsWithBids(2, [2]int64{101, 4})})
	require.True(t, ok)
	require.Len(t, s.Bids, 1)
	require.Equal(t, int64(101), s.Bids[0].Price)
}

func TestAbsentLevelsYieldNoSnapshot(t *testing.T) {
	b := NewBuilder()

	rec := schema.TopsRecord{Ts: 1}
	rec.Levels[0] = schema.TopLevel{BidPrice: 100, BidQty: 0, AskPrice: 0, AskQty: 5}
	_, ok := b.Update(schema.MergedTopsEntry{FeedID: 1, Tops: rec})
	require.False(t, ok, "zero qty and zero price levels are absent")
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "merged_tops.TEST.bin")
	out := filepath.Join(dir, "processed", "processed_tops.TEST.bin")

	w, err := recorder.Create(in)
	require.NoError(t, err)

	entries := []schema.MergedTopsEntry{
		{FeedID: 1, Tops: topsWithBids(1, [2]int64{100, 10})},
		{FeedID: 2, Tops: topsWithBids(2, [2]int64{100, 7}, [2]int64{99, 5})},
		{FeedID: 2, Tops: topsWithBids(3, [2]int64{100, 7}, [2]int64{99, 5})}, // unchanged
	}
	for _, e := range entries {
		require.NoError(t, w.Append(codec.EncodeMergedTops(nil, e)))
	}
	require.NoError(t, w.Patch(schema.FileHeader{FeedID: schema.MergedFeedID, DateInt: 20240315, SymbolIdx: 2}))

	res, err := Process(in, out)
	require.NoError(t, err)
	require.Equal(t, uint32(3), res.RecordsIn)
	require.Equal(t, uint32(2), res.Snapshots)

	r, err := recorder.Open(out, 1)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, uint32(2), r.Header().Count)
	require.Equal(t, uint32(20240315), r.Header().DateInt)

	// Frames decode in order and differ from one another.
	f, err := recorder.OpenFrames(out)
	require.NoError(t, err)
	defer f.Close()

	first, err := f.Next()
	require.NoError(t, err)
	second, err := f.Next()
	require.NoError(t, err)
	_, err = f.Next()
	require.ErrorIs(t, err, io.EOF)

	require.False(t, schema.LevelsEqual(first.Bids, second.Bids))
	require.Equal(t, uint64(1), first.Ts)
	require.Equal(t, uint64(2), second.Ts)
}
