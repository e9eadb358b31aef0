package main

import (
	"context"
	"flag"
	"log"
	"os"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"pricemodeling/internal/bus"
	"pricemodeling/internal/layout"
	"pricemodeling/internal/merge"
	"pricemodeling/internal/ops"
	"pricemodeling/internal/pipeline"
)

func main() {
	root := flag.String("root", ".", "Capture tree root")
	date := flag.String("date", "", "Date folder (yyyymmdd)")
	configPath := flag.String("config", "", "Path to JSON run config")
	workers := flag.Int("workers", 0, "Worker count (0 = all cores)")
	profile := flag.String("pyroscope", "", "Pyroscope server address (empty = off)")
	flag.Parse()

	if *date == "" {
		log.Fatalf("date is required")
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

	if *profile != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "pricemodeling/mergebooks",
			ServerAddress:   *profile,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sys.Shutdown()
		cancel()
	}()

	venues := cfg.Venues
	if len(venues) == 0 {
		venues, err = layout.VenueFolders(*root, *date)
		if err != nil {
			log.Fatalf("venue discovery failed: %v", err)
		}
	}
	if len(venues) == 0 {
		logs.Infof("no venue folders under %s", layout.DateDir(*root, *date))
		return
	}

	symbols := layout.SymbolsFromBooks(*root, *date, venues)
	if len(symbols) == 0 {
		logs.Info("no symbols found across venues")
		return
	}
	logs.Infof("merging %d symbols across %d venues", len(symbols), len(venues))

	tasks := make([]bus.Task, 0, len(symbols))
	for _, symbol := range symbols {
		tasks = append(tasks, bus.Task{
			Label: symbol,
			Run:   func() error { return mergeSymbol(*root, *date, venues, symbol) },
		})
	}

	stats := pipeline.Run(ctx, tasks, *workers)
	logs.Infof("merge done: %d ok, %d failed", stats.TasksOK, stats.TasksFailed)
	if stats.TasksFailed > 0 {
		os.Exit(1)
	}
}

func mergeSymbol(root, date string, venues []string, symbol string) error {
	for _, kind := range []string{layout.KindFills, layout.KindTops} {
		inputs := make([]string, 0, len(venues))
		for _, venue := range venues {
			inputs = append(inputs, layout.BookFile(root, date, venue, kind, symbol))
		}
		out := layout.MergedFile(root, date, kind, symbol)

		var res merge.Result
		var err error
		if kind == layout.KindFills {
			res, err = merge.FillFiles(inputs, out)
		} else {
			res, err = merge.TopsFiles(inputs, out)
		}
		if err == merge.ErrNoInputs {
			logs.Infof("%s %s: no readable inputs, skipped", symbol, kind)
			continue
		}
		if err != nil {
			return err
		}
		for _, skipped := range res.Skipped {
			logs.Infof("%s: skipped unreadable input %s", symbol, skipped)
		}
		for _, truncated := range res.Truncated {
			logs.Warnf("%s: truncated record at tail of %s", symbol, truncated)
		}
		logs.Infof("%s %s: merged %d records from %d inputs", symbol, kind, res.Records, res.Inputs)
	}
	return nil
}
