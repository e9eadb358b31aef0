package bars

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

func writeFillsFixture(t *testing.T, path string, fills []schema.FillRecord) {
	t.Helper()
	w, err := recorder.Create(path)
	require.NoError(t, err)
	for _, f := range fills {
		require.NoError(t, w.Append(codec.EncodeFill(nil, f)))
	}
	require.NoError(t, w.Patch(schema.FileHeader{FeedID: 1, DateInt: 20240315, SymbolIdx: 3}))
}

func writeTopsFixture(t *testing.T, path string, tops []schema.TopsRecord) {
	t.Helper()
	w, err := recorder.Create(path)
	require.NoError(t, err)
	for _, rec := range tops {
		require.NoError(t, w.Append(codec.EncodeTops(nil, rec)))
	}
	require.NoError(t, w.Patch(schema.FileHeader{FeedID: 1, DateInt: 20240315, SymbolIdx: 3}))
}

func readTradeBars(t *testing.T, path string) []schema.TradeBar {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Zero(t, len(data)%codec.TradeBarSize)
	var out []schema.TradeBar
	for off := 0; off < len(data); off += codec.TradeBarSize {
		bar, ok := codec.DecodeTradeBar(data[off:])
		require.True(t, ok)
		out = append(out, bar)
	}
	return out
}

func readQuoteBars(t *testing.T, path string) []schema.QuoteBar {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Zero(t, len(data)%codec.QuoteBarSize)
	var out []schema.QuoteBar
	for off := 0; off < len(data); off += codec.QuoteBarSize {
		bar, ok := codec.DecodeQuoteBar(data[off:])
		require.True(t, ok)
		out = append(out, bar)
	}
	return out
}

func TestBuildFillsBars(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "VENUE.book_fills.TEST.bin")
	out := filepath.Join(dir, "bars", "VENUE.fills_bars.TEST.bin")

	writeFillsFixture(t, in, []schema.FillRecord{
		{Ts: 1_000_000_000, TradePrice: 100_000_000_000, TradeQty: 5},
		{Ts: 1_100_000_000, TradePrice: 101_000_000_000, TradeQty: 3},
		{Ts: 1_500_000_000, TradePrice: 99_500_000_000, TradeQty: 2},
		{Ts: 3_000_000_000, TradePrice: 100_000_000_000, TradeQty: 1},
	})

	res, err := BuildFillsBars(in, out)
	require.NoError(t, err)
	require.Equal(t, uint32(4), res.RecordsIn)
	require.False(t, res.Truncated)
	require.False(t, res.CountMismatch)

	bars := readTradeBars(t, out)
	require.Equal(t, []schema.TradeBar{
		{TsSec: 1, Open: 100, High: 101, Low: 99.5, Close: 99.5, Volume: 10},
		{TsSec: 3, Open: 100, High: 100, Low: 100, Close: 100, Volume: 1},
	}, bars)
}

func quoteLevel(bid, ask int64, bq, aq uint32) schema.TopLevel {
	return schema.TopLevel{BidPrice: bid, AskPrice: ask, BidQty: bq, AskQty: aq}
}

func TestBuildTopsBars(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "VENUE.book_tops.TEST.bin")

	var out TopsBarPaths
	for i := 0; i < schema.BookLevels; i++ {
		out.Bid[i] = filepath.Join(dir, "bars", "bid", "L"+string(rune('1'+i))+".bin")
		out.Ask[i] = filepath.Join(dir, "bars", "ask", "L"+string(rune('1'+i))+".bin")
	}

	// L2 is quoted only on the first record; L3 never.
	tops := []schema.TopsRecord{
		{Ts: 1_000_000_000, Levels: [3]schema.TopLevel{
			quoteLevel(10_000_000_000, 11_000_000_000, 5, 5),
			quoteLevel(9_000_000_000, 12_000_000_000, 1, 1),
			{},
		}},
		{Ts: 1_500_000_000, Levels: [3]schema.TopLevel{
			quoteLevel(10_500_000_000, 11_500_000_000, 5, 5),
			{},
			{},
		}},
		{Ts: 2_000_000_000, Levels: [3]schema.TopLevel{
			quoteLevel(10_250_000_000, 11_250_000_000, 5, 5),
			{},
			{},
		}},
	}
	writeTopsFixture(t, in, tops)

	res, err := BuildTopsBars(in, out)
	require.NoError(t, err)
	require.Equal(t, uint32(3), res.RecordsIn)

	bidL1 := readQuoteBars(t, out.Bid[0])
	require.Equal(t, []schema.QuoteBar{
		{TsSec: 1, Open: 10, High: 10.5, Low: 10, Close: 10.5},
		{TsSec: 2, Open: 10.25, High: 10.25, Low: 10.25, Close: 10.25},
	}, bidL1)

	bidL2 := readQuoteBars(t, out.Bid[1])
	require.Equal(t, []schema.QuoteBar{
		{TsSec: 1, Open: 9, High: 9, Low: 9, Close: 9},
	}, bidL2)

	require.Empty(t, readQuoteBars(t, out.Bid[2]))
	require.Empty(t, readQuoteBars(t, out.Ask[2]))

	askL1 := readQuoteBars(t, out.Ask[0])
	require.Len(t, askL1, 2)
	require.Equal(t, 11.0, askL1[0].Open)
	require.Equal(t, 11.5, askL1[0].Close)
}

func TestBuildFillsBarsTruncatedInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "VENUE.book_fills.TEST.bin")
	out := filepath.Join(dir, "fills_bars.bin")

	writeFillsFixture(t, in, []schema.FillRecord{
		{Ts: 1_000_000_000, TradePrice: 100_000_000_000, TradeQty: 5},
		{Ts: 2_000_000_000, TradePrice: 101_000_000_000, TradeQty: 1},
	})

	data, err := os.ReadFile(in)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, data[:len(data)-7], 0o644))

	res, err := BuildFillsBars(in, out)
	require.NoError(t, err)
	require.True(t, res.Truncated)
	require.True(t, res.CountMismatch)
	require.Equal(t, uint32(1), res.RecordsIn)

	// The whole record before the torn tail still yields its bar.
	bars := readTradeBars(t, out)
	require.Len(t, bars, 1)
	require.Equal(t, uint64(1), bars[0].TsSec)
}
