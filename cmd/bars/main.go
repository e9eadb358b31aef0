package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"pricemodeling/internal/bars"
	"pricemodeling/internal/bus"
	"pricemodeling/internal/layout"
	"pricemodeling/internal/ops"
	"pricemodeling/internal/pipeline"
)

func main() {
	root := flag.String("root", ".", "Capture tree root")
	date := flag.String("date", "", "Date folder (yyyymmdd)")
	venue := flag.String("venue", "", "Venue folder name")
	configPath := flag.String("config", "", "Path to JSON run config")
	workers := flag.Int("workers", 0, "Worker count (0 = all cores)")
	flag.Parse()

	if *date == "" || *venue == "" {
		log.Fatalf("date and venue are required")
	}

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *root == "." && cfg.Root != "." {
		*root = cfg.Root
	}
	if *workers == 0 {
		*workers = cfg.Workers
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sys.Shutdown()
		cancel()
	}()

	symbols := layout.SymbolsFromBooks(*root, *date, []string{*venue})
	if len(symbols) == 0 {
		logs.Infof("no capture files under %s", layout.BooksDir(*root, *date, *venue))
		return
	}
	logs.Infof("building bars for %d symbols in %s/%s", len(symbols), *date, *venue)

	tasks := make([]bus.Task, 0, len(symbols))
	for _, symbol := range symbols {
		tasks = append(tasks, bus.Task{
			Label: symbol,
			Run:   func() error { return buildSymbol(*root, *date, *venue, symbol) },
		})
	}

	stats := pipeline.Run(ctx, tasks, *workers)
	logs.Infof("bars done: %d ok, %d failed, %d warnings", stats.TasksOK, stats.TasksFailed, stats.Warnings)
	if stats.TasksFailed > 0 {
		os.Exit(1)
	}
}

func buildSymbol(root, date, venue, symbol string) error {
	fillsIn := layout.BookFile(root, date, venue, layout.KindFills, symbol)
	if _, err := os.Stat(fillsIn); err == nil {
		res, err := bars.BuildFillsBars(fillsIn, layout.FillsBarsFile(root, date, venue, symbol))
		if err != nil {
			return err
		}
		warnBuild(fillsIn, res)
		logs.Infof("%s fills: %d records -> %d bars", symbol, res.RecordsIn, res.BarsOut[bars.SeriesFills])
	}

	topsIn := layout.BookFile(root, date, venue, layout.KindTops, symbol)
	if _, err := os.Stat(topsIn); err != nil {
		return nil
	}

	var out bars.TopsBarPaths
	for level := 0; level < 3; level++ {
		out.Bid[level] = layout.QuoteBarsFile(root, date, venue, symbol, layout.SideBid, level+1)
		out.Ask[level] = layout.QuoteBarsFile(root, date, venue, symbol, layout.SideAsk, level+1)
	}
	res, err := bars.BuildTopsBars(topsIn, out)
	if err != nil {
		return err
	}
	warnBuild(topsIn, res)

	total := 0
	for i := bars.SeriesBidL1; i <= bars.SeriesAskL3; i++ {
		total += res.BarsOut[i]
	}
	logs.Infof("%s tops: %d records -> %d bars over 6 series", symbol, res.RecordsIn, total)
	return nil
}

func warnBuild(path string, res bars.BuildResult) {
	if res.Truncated {
		logs.Warnf("%s: truncated record at tail, stopped early", shortPath(path))
	}
	if res.CountMismatch {
		logs.Warnf("%s: header count %d does not match file contents", shortPath(path), res.HeaderCount)
	}
}

func shortPath(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
