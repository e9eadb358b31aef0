package layout

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Capture kinds as they appear in file names.
const (
	KindFills = "book_fills"
	KindTops  = "book_tops"
)

// Book sides as they appear in quote-bar file names.
const (
	SideBid = "bid"
	SideAsk = "ask"
)

// Venue folders are lowercase on disk while the venue prefix inside file
// names is uppercase; symbols are uppercase everywhere.

// DateDir is the per-date root holding one folder per venue.
func DateDir(root, date string) string {
	return filepath.Join(root, date)
}

// VenueDir is a venue's folder under one date.
func VenueDir(root, date, venue string) string {
	return filepath.Join(root, date, strings.ToLower(venue))
}

// BooksDir holds a venue's raw capture files.
func BooksDir(root, date, venue string) string {
	return filepath.Join(VenueDir(root, date, venue), "books")
}

// BarsDir holds a venue's bar files.
func BarsDir(root, date, venue string) string {
	return filepath.Join(VenueDir(root, date, venue), "bars")
}

// BookFile names one raw capture file.
func BookFile(root, date, venue, kind, symbol string) string {
	name := fmt.Sprintf("%s.%s.%s.bin", strings.ToUpper(venue), kind, strings.ToUpper(symbol))
	return filepath.Join(BooksDir(root, date, venue), name)
}

// FillsBarsFile names a venue's trade-bar file for one symbol.
func FillsBarsFile(root, date, venue, symbol string) string {
	name := fmt.Sprintf("%s.fills_bars.%s.bin", strings.ToUpper(venue), strings.ToUpper(symbol))
	return filepath.Join(BarsDir(root, date, venue), name)
}

// QuoteBarsFile names a venue's quote-bar file for one symbol, side and
// one-based level.
func QuoteBarsFile(root, date, venue, symbol, side string, level int) string {
	name := fmt.Sprintf("%s.%s_bars_L%d.%s.bin", strings.ToUpper(venue), side, level, strings.ToUpper(symbol))
	return filepath.Join(BarsDir(root, date, venue), name)
}

// MergedDir holds the cross-venue merged files of one date.
func MergedDir(root, date string) string {
	return filepath.Join(root, date, "mergedbooks")
}

// MergedFile names a merged stream. The kind collapses to its short form:
// book_fills merges into merged_fills, book_tops into merged_tops.
func MergedFile(root, date, kind, symbol string) string {
	short := "tops"
	if kind == KindFills {
		short = "fills"
	}
	name := fmt.Sprintf("merged_%s.%s.bin", short, strings.ToUpper(symbol))
	return filepath.Join(MergedDir(root, date), name)
}

// ProcessedDir holds consolidated snapshot files.
func ProcessedDir(root, date string) string {
	return filepath.Join(MergedDir(root, date), "processed")
}

// ProcessedFile names one consolidated snapshot file.
func ProcessedFile(root, date, symbol string) string {
	name := fmt.Sprintf("processed_tops.%s.bin", strings.ToUpper(symbol))
	return filepath.Join(ProcessedDir(root, date), name)
}

// ImpactFile names the impact output for an input file: it lives in an
// impactbase folder next to the input, keyed by the target quantity.
func ImpactFile(inputPath string, qty uint32) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "impactbase", fmt.Sprintf("%s.qty%d.results.bin", base, qty))
}

// CorrelationCSV names the pairwise correlation report of a bars folder.
func CorrelationCSV(barsDir string) string {
	return filepath.Join(barsDir, "overall_correlations.csv")
}
