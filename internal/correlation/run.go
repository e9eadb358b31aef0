package correlation

import (
	"context"
	"sort"
	"sync"

	"pricemodeling/internal/bus"
	"pricemodeling/internal/layout"
	"pricemodeling/internal/obs"
	"pricemodeling/internal/pipeline"
)

// FolderRun reports one bars-folder correlation sweep.
type FolderRun struct {
	Symbols      []string
	ValidSymbols []string
	Results      []PairResult
	Stats        obs.Snapshot
}

// symbolFiles builds the seven series paths for one symbol of a venue.
func symbolFiles(root, date, venue, symbol string) SymbolFiles {
	files := SymbolFiles{Fills: layout.FillsBarsFile(root, date, venue, symbol)}
	for level := 0; level < 3; level++ {
		files.Bid[level] = layout.QuoteBarsFile(root, date, venue, symbol, layout.SideBid, level+1)
		files.Ask[level] = layout.QuoteBarsFile(root, date, venue, symbol, layout.SideAsk, level+1)
	}
	return files
}

// RunFolder sweeps one venue's bars folder: symbols are discovered and
// validated, then every pair runs as its own task over the worker pool.
// The series and existence caches are shared across all pair workers.
func RunFolder(ctx context.Context, root, date, venue string, workers int) FolderRun {
	run := FolderRun{
		Symbols: layout.SymbolsFromBars(layout.BarsDir(root, date, venue)),
	}

	engine := NewEngine()
	for _, symbol := range run.Symbols {
		if engine.ValidSymbol(symbolFiles(root, date, venue, symbol)) {
			run.ValidSymbols = append(run.ValidSymbols, symbol)
		}
	}
	if len(run.ValidSymbols) < 2 {
		return run
	}

	var (
		mu    sync.Mutex
		tasks []bus.Task
	)
	for i := 0; i < len(run.ValidSymbols); i++ {
		for j := i + 1; j < len(run.ValidSymbols); j++ {
			sym1, sym2 := run.ValidSymbols[i], run.ValidSymbols[j]
			tasks = append(tasks, bus.Task{
				Label: sym1 + "/" + sym2,
				Run: func() error {
					overall, ok := engine.PairOverall(
						symbolFiles(root, date, venue, sym1),
						symbolFiles(root, date, venue, sym2),
					)
					if !ok {
						return nil
					}
					mu.Lock()
					run.Results = append(run.Results, PairResult{Symbol1: sym1, Symbol2: sym2, Overall: overall})
					mu.Unlock()
					return nil
				},
			})
		}
	}

	run.Stats = pipeline.Run(ctx, tasks, workers)

	sort.Slice(run.Results, func(i, j int) bool {
		if run.Results[i].Symbol1 != run.Results[j].Symbol1 {
			return run.Results[i].Symbol1 < run.Results[j].Symbol1
		}
		return run.Results[i].Symbol2 < run.Results[j].Symbol2
	})
	return run
}
