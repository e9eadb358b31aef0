package main

import (
	"flag"
	"log"
	"strings"

	"github.com/yanun0323/logs"

	"pricemodeling/internal/mdg"
)

func main() {
	root := flag.String("root", "testdata", "Capture tree root")
	date := flag.String("date", "20240315", "Date folder (yyyymmdd)")
	venue := flag.String("venue", "venuea", "Venue folder name")
	feed := flag.Uint64("feed", 1, "Feed id written to headers")
	symbols := flag.String("symbols", "AAA,BBB", "Comma-separated symbols")
	records := flag.Int("records", 1000, "Records per capture file")
	flag.Parse()

	if *records <= 0 {
		log.Fatalf("records must be > 0")
	}

	list := strings.Split(*symbols, ",")
	for i := range list {
		list[i] = strings.ToUpper(strings.TrimSpace(list[i]))
	}

	if err := mdg.WriteBooks(*root, *date, *venue, *feed, list, *records); err != nil {
		log.Fatalf("fixture generation failed: %v", err)
	}
	logs.Infof("wrote %d symbols x %d records under %s/%s/%s", len(list), *records, *root, *date, *venue)
}
