package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"pricemodeling/internal/book"
	"pricemodeling/internal/bus"
	"pricemodeling/internal/layout"
	"pricemodeling/internal/ops"
	"pricemodeling/internal/pipeline"
)

func main() {
	root := flag.String("root", ".", "Capture tree root")
	date := flag.String("date", "", "Date folder (yyyymmdd)")
	configPath := flag.String("config", "", "Path to JSON run config")
	workers := flag.Int("workers", 0, "Worker count (0 = all cores)")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sys.Shutdown()
		cancel()
	}()

	files, err := layout.MergedTopsFiles(*root, *date)
	if err != nil {
		log.Fatalf("merged file discovery failed: %v", err)
	}
	if len(files) == 0 {
		logs.Infof("no merged tops files under %s", layout.MergedDir(*root, *date))
		return
	}
	logs.Infof("consolidating %d merged tops files", len(files))

	tasks := make([]bus.Task, 0, len(files))
	for _, f := range files {
		tasks = append(tasks, bus.Task{
			Label: f.Symbol,
			Run: func() error {
				res, err := book.Process(f.Path, layout.ProcessedFile(*root, *date, f.Symbol))
				if err != nil {
					return err
				}
				if res.Truncated {
					logs.Warnf("%s: truncated record at tail, stopped early", f.Symbol)
				}
				logs.Infof("%s: %d entries -> %d snapshots", f.Symbol, res.RecordsIn, res.Snapshots)
				return nil
			},
		})
	}

	stats := pipeline.Run(ctx, tasks, *workers)
	logs.Infof("consolidation done: %d ok, %d failed", stats.TasksOK, stats.TasksFailed)
	if stats.TasksFailed > 0 {
		os.Exit(1)
	}
}
