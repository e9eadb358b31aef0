package layout

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	bookFilePattern = regexp.MustCompile(`(?i)^[A-Z0-9_-]+\.(?:book_fills|book_tops)\.([A-Z0-9_^+=-]+)\.bin$`)
	barFilePattern  = regexp.MustCompile(`(?i)\.(?:fills_bars|bid_bars_L[0-9]|ask_bars_L[0-9])\.([A-Z0-9_^+=-]+)\.bin$`)
	mergedTopsGlob  = "merged_tops.*.bin"
)

// VenueFolders lists the venue directories under one date, excluding the
// merged output folder.
func VenueFolders(root, date string) ([]string, error) {
	entries, err := os.ReadDir(DateDir(root, date))
	if err != nil {
		return nil, err
	}
	venues := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		if !e.IsDir() || strings.EqualFold(e.Name(), "mergedbooks") {
			return "", false
		}
		return e.Name(), true
	})
	sort.Strings(venues)
	return venues, nil
}

// SymbolsFromBooks collects the distinct symbols captured across the
// venues' books folders, uppercased and sorted.
func SymbolsFromBooks(root, date string, venues []string) []string {
	set := make(map[string]struct{})
	for _, venue := range venues {
		entries, err := os.ReadDir(BooksDir(root, date, venue))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if m := bookFilePattern.FindStringSubmatch(e.Name()); m != nil {
				set[strings.ToUpper(m[1])] = struct{}{}
			}
		}
	}
	symbols := lo.Keys(set)
	sort.Strings(symbols)
	return symbols
}

// SymbolsFromBars collects the distinct symbols present in a bars folder.
func SymbolsFromBars(barsDir string) []string {
	entries, err := os.ReadDir(barsDir)
	if err != nil {
		return nil
	}
	set := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := barFilePattern.FindStringSubmatch(e.Name()); m != nil {
			set[strings.ToUpper(m[1])] = struct{}{}
		}
	}
	symbols := lo.Keys(set)
	sort.Strings(symbols)
	return symbols
}

// MergedTopsFile pairs a merged tops path with its symbol.
type MergedTopsFile struct {
	Symbol string
	Path   string
}

// MergedTopsFiles lists the merged tops files of one date, sorted by
// symbol.
func MergedTopsFiles(root, date string) ([]MergedTopsFile, error) {
	matches, err := filepath.Glob(filepath.Join(MergedDir(root, date), mergedTopsGlob))
	if err != nil {
		return nil, err
	}
	files := lo.Map(matches, func(path string, _ int) MergedTopsFile {
		base := filepath.Base(path)
		symbol := strings.TrimSuffix(strings.TrimPrefix(base, "merged_tops."), ".bin")
		return MergedTopsFile{Symbol: symbol, Path: path}
	})
	sort.Slice(files, func(i, j int) bool { return files[i].Symbol < files[j].Symbol })
	return files, nil
}
