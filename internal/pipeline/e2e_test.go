package pipeline_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"pricemodeling/internal/bars"
	"pricemodeling/internal/book"
	"pricemodeling/internal/codec"
	"pricemodeling/internal/correlation"
	"pricemodeling/internal/impact"
	"pricemodeling/internal/layout"
	"pricemodeling/internal/mdg"
	"pricemodeling/internal/merge"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

// The full pipeline over synthetic captures: books -> bars -> merged ->
// consolidated snapshots and impact, with correlations over the bar files.
func TestFullPipeline(t *testing.T) {
	root := t.TempDir()
	date := "20240315"
	venues := []string{"venuea", "venueb"}
	symbols := []string{"AAA", "BBB"}

	require.NoError(t, mdg.WriteBooks(root, date, venues[0], 1, symbols, 400))
	require.NoError(t, mdg.WriteBooks(root, date, venues[1], 2, symbols, 300))

	// Bars per venue.
	for _, venue := range venues {
		for _, symbol := range symbols {
			_, err := bars.BuildFillsBars(
				layout.BookFile(root, date, venue, layout.KindFills, symbol),
				layout.FillsBarsFile(root, date, venue, symbol))
			require.NoError(t, err)

			var out bars.TopsBarPaths
			for level := 0; level < 3; level++ {
				out.Bid[level] = layout.QuoteBarsFile(root, date, venue, symbol, layout.SideBid, level+1)
				out.Ask[level] = layout.QuoteBarsFile(root, date, venue, symbol, layout.SideAsk, level+1)
			}
			_, err = bars.BuildTopsBars(layout.BookFile(root, date, venue, layout.KindTops, symbol), out)
			require.NoError(t, err)
		}
	}

	// K-way merge per symbol.
	for _, symbol := range symbols {
		inputs := []string{
			layout.BookFile(root, date, venues[0], layout.KindTops, symbol),
			layout.BookFile(root, date, venues[1], layout.KindTops, symbol),
		}
		res, err := merge.TopsFiles(inputs, layout.MergedFile(root, date, layout.KindTops, symbol))
		require.NoError(t, err)
		require.Equal(t, uint32(700), res.Records)

		verifyMergedFile(t, res.OutPath)
	}

	// Consolidated snapshots.
	files, err := layout.MergedTopsFiles(root, date)
	require.NoError(t, err)
	require.Len(t, files, len(symbols))
	for _, f := range files {
		res, err := book.Process(f.Path, layout.ProcessedFile(root, date, f.Symbol))
		require.NoError(t, err)
		require.Positive(t, res.Snapshots)

		verifySnapshotFile(t, layout.ProcessedFile(root, date, f.Symbol))
	}

	// Impact over one venue capture and over the merged stream.
	topsIn := layout.BookFile(root, date, venues[0], layout.KindTops, "AAA")
	impactOut := layout.ImpactFile(topsIn, 8)
	res, err := impact.ProcessTops(topsIn, impactOut, 8)
	require.NoError(t, err)
	require.Positive(t, res.Written)
	verifyImpactFile(t, impactOut)

	mergedIn := layout.MergedFile(root, date, layout.KindTops, "AAA")
	_, err = impact.ProcessMerged(mergedIn, layout.ImpactFile(mergedIn, 8), 8)
	require.NoError(t, err)

	// Correlations over one venue's bars folder.
	run := correlation.RunFolder(context.Background(), root, date, venues[0], 2)
	require.Equal(t, symbols, run.Symbols)
	if len(run.Results) > 0 {
		csvPath := layout.CorrelationCSV(layout.BarsDir(root, date, venues[0]))
		require.NoError(t, correlation.WriteCSV(csvPath, run.Results))
		_, err := os.Stat(csvPath)
		require.NoError(t, err)
	}
}

// verifyMergedFile checks the patched header count and time ordering.
func verifyMergedFile(t *testing.T, path string) {
	t.Helper()
	r, err := recorder.Open(path, codec.MergedTopsEntrySize)
	require.NoError(t, err)
	defer r.Close()

	var (
		count  uint32
		lastTs uint64
	)
	for {
		raw, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		e, ok := codec.DecodeMergedTops(raw)
		require.True(t, ok)
		require.GreaterOrEqual(t, e.Tops.Ts, lastTs, "merged stream must be time-ordered")
		lastTs = e.Tops.Ts
		count++
	}
	require.Equal(t, r.Header().Count, count, "header count must match records written")
	require.Equal(t, schema.MergedFeedID, r.Header().FeedID)
}

// verifySnapshotFile checks consecutive-difference, ordering and depth.
func verifySnapshotFile(t *testing.T, path string) {
	t.Helper()
	r, err := recorder.OpenFrames(path)
	require.NoError(t, err)
	defer r.Close()

	var (
		prev   schema.Snapshot
		seen   bool
		count  uint32
		lastTs uint64
	)
	for {
		s, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		count++

		require.GreaterOrEqual(t, s.Ts, lastTs)
		lastTs = s.Ts

		require.LessOrEqual(t, len(s.Bids), schema.BookLevels)
		require.LessOrEqual(t, len(s.Asks), schema.BookLevels)
		for i := 1; i < len(s.Bids); i++ {
			require.Less(t, s.Bids[i].Price, s.Bids[i-1].Price)
		}
		for i := 1; i < len(s.Asks); i++ {
			require.Greater(t, s.Asks[i].Price, s.Asks[i-1].Price)
		}

		if seen {
			same := schema.LevelsEqual(prev.Bids, s.Bids) && schema.LevelsEqual(prev.Asks, s.Asks)
			require.False(t, same, "consecutive snapshots must differ")
		}
		prev, seen = s, true
	}
	require.Equal(t, r.Header().Count, count)
}

// verifyImpactFile checks the patched header and time ordering.
func verifyImpactFile(t *testing.T, path string) {
	t.Helper()
	r, err := recorder.Open(path, codec.ImpactRecordSize)
	require.NoError(t, err)
	defer r.Close()

	var (
		count  uint32
		lastTs uint64
	)
	for {
		raw, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rec, ok := codec.DecodeImpact(raw)
		require.True(t, ok)
		require.GreaterOrEqual(t, rec.Ts, lastTs)
		lastTs = rec.Ts
		count++
	}
	require.Equal(t, r.Header().Count, count)
}
