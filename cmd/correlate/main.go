package main

import (
	"context"
	"flag"
	"log"
	"os"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"pricemodeling/internal/correlation"
	"pricemodeling/internal/layout"
	"pricemodeling/internal/ops"
)

func main() {
	root := flag.String("root", ".", "Capture tree root")
	date := flag.String("date", "", "Date folder (yyyymmdd)")
	venue := flag.String("venue", "", "Venue folder name")
	configPath := flag.String("config", "", "Path to JSON run config")
	workers := flag.Int("workers", 0, "Worker count (0 = all cores)")
	profile := flag.String("pyroscope", "", "Pyroscope server address (empty = off)")
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

	if *profile != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "pricemodeling/correlate",
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

	run := correlation.RunFolder(ctx, *root, *date, *venue, *workers)
	logs.Infof("found %d symbols, %d with enough data", len(run.Symbols), len(run.ValidSymbols))
	if len(run.ValidSymbols) < 2 {
		logs.Info("not enough valid symbols to correlate")
		return
	}
	logs.Infof("pairs done: %d ok, %d failed, %d with a result",
		run.Stats.TasksOK, run.Stats.TasksFailed, len(run.Results))

	if len(run.Results) == 0 {
		logs.Info("no correlation results were computed")
		return
	}

	csvPath := layout.CorrelationCSV(layout.BarsDir(*root, *date, *venue))
	if err := correlation.WriteCSV(csvPath, run.Results); err != nil {
		log.Fatalf("csv write failed: %v", err)
	}
	logs.Infof("results saved to %s", csvPath)

	if run.Stats.TasksFailed > 0 {
		os.Exit(1)
	}
}
