package correlation

import (
	"os"
	"sync"

	"pricemodeling/internal/codec"
)

// maxCachedSeries bounds the contents cache: a close series longer than
// this is re-read on every use instead of held in memory.
const maxCachedSeries = 100_000

// SymbolFiles lists the seven bar files of one symbol in component order.
type SymbolFiles struct {
	Fills string
	Bid   [3]string
	Ask   [3]string
}

// Component returns the file path for a component index.
func (s SymbolFiles) Component(c Component) (path string, fills bool) {
	switch c {
	case ComponentFills:
		return s.Fills, true
	case ComponentBidL1:
		return s.Bid[0], false
	case ComponentAskL1:
		return s.Ask[0], false
	case ComponentBidL2:
		return s.Bid[1], false
	case ComponentAskL2:
		return s.Ask[1], false
	case ComponentBidL3:
		return s.Bid[2], false
	default:
		return s.Ask[2], false
	}
}

// Engine loads close-price series for correlation workers. Existence and
// contents are cached behind one coarse mutex; both caches are insert-only
// and shared across the whole run.
type Engine struct {
	mu     sync.Mutex
	exists map[string]bool
	series map[string][]float64
}

// NewEngine returns an engine with empty caches.
func NewEngine() *Engine {
	return &Engine{
		exists: make(map[string]bool),
		series: make(map[string][]float64),
	}
}

// Closes returns the close prices of a bar file: nil when the file is
// missing, an empty series when it holds no whole record. Bar files are
// headerless; records start at offset zero
// and a dangling tail shorter than one record is ignored.
func (e *Engine) Closes(path string, fills bool) []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if known, ok := e.exists[path]; ok && !known {
		return nil
	}
	if cached, ok := e.series[path]; ok {
		return cached
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.exists[path] = false
		return nil
	}
	e.exists[path] = true

	closes := decodeCloses(data, fills)
	if len(closes) <= maxCachedSeries {
		e.series[path] = closes
	}
	return closes
}

// ValidSymbol reports whether all seven series of a symbol carry at least
// the minimum record count.
func (e *Engine) ValidSymbol(files SymbolFiles) bool {
	for c := Component(0); c < ComponentCount; c++ {
		path, fills := files.Component(c)
		if len(e.Closes(path, fills)) < MinSeriesLength {
			return false
		}
	}
	return true
}

// PairOverall correlates every component of two symbols and returns the
// weighted overall score. ok is false when no component was usable.
func (e *Engine) PairOverall(a, b SymbolFiles) (float64, bool) {
	var values [ComponentCount]float64
	var valid [ComponentCount]bool

	for c := Component(0); c < ComponentCount; c++ {
		pathA, fills := a.Component(c)
		pathB, _ := b.Component(c)

		seriesA := e.Closes(pathA, fills)
		seriesB := e.Closes(pathB, fills)
		if len(seriesA) == 0 || len(seriesB) == 0 {
			continue
		}

		trimmedA, trimmedB := TrimToSameLength(seriesA, seriesB)
		if len(trimmedA) < MinSeriesLength || len(trimmedB) < MinSeriesLength {
			continue
		}
		if r, ok := Pearson(trimmedA, trimmedB); ok {
			values[c] = r
			valid[c] = true
		}
	}

	return Overall(values, valid)
}

func decodeCloses(data []byte, fills bool) []float64 {
	recSize := codec.QuoteBarSize
	if fills {
		recSize = codec.TradeBarSize
	}
	closes := make([]float64, 0, len(data)/recSize)
	for off := 0; off+recSize <= len(data); off += recSize {
		if fills {
			bar, _ := codec.DecodeTradeBar(data[off:])
			closes = append(closes, bar.Close)
		} else {
			bar, _ := codec.DecodeQuoteBar(data[off:])
			closes = append(closes, bar.Close)
		}
	}
	return closes
}
