package main

import (
	"flag"
	"log"

	"github.com/yanun0323/logs"

	"pricemodeling/internal/impact"
	"pricemodeling/internal/layout"
)

func main() {
	root := flag.String("root", ".", "Capture tree root")
	date := flag.String("date", "", "Date folder (yyyymmdd)")
	venue := flag.String("venue", "", "Venue folder name (ignored with -merged)")
	symbol := flag.String("symbol", "", "Symbol")
	qty := flag.Uint("qty", 0, "Target execution quantity")
	merged := flag.Bool("merged", false, "Walk the merged tops file instead of a venue capture")
	flag.Parse()

	if *date == "" || *symbol == "" {
		log.Fatalf("date and symbol are required")
	}
	if *qty == 0 {
		log.Fatalf("qty must be positive")
	}
	if !*merged && *venue == "" {
		log.Fatalf("venue is required without -merged")
	}

	var (
		in  string
		res impact.Result
		err error
	)
	if *merged {
		in = layout.MergedFile(*root, *date, layout.KindTops, *symbol)
		res, err = impact.ProcessMerged(in, layout.ImpactFile(in, uint32(*qty)), uint32(*qty))
	} else {
		in = layout.BookFile(*root, *date, *venue, layout.KindTops, *symbol)
		res, err = impact.ProcessTops(in, layout.ImpactFile(in, uint32(*qty)), uint32(*qty))
	}
	if err != nil {
		log.Fatalf("impact run failed: %v", err)
	}

	if res.Truncated {
		logs.Warnf("%s: truncated record at tail, stopped early", in)
	}
	logs.Infof("impact qty %d: %d tops -> %d records", *qty, res.RecordsIn, res.Written)
}
