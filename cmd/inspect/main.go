package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

func main() {
	limit := flag.Int("limit", 10, "Records to print (0 = all)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: inspect [-limit n] <file>")
	}
	path := flag.Arg(0)

	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, "results"):
		dumpFixed(path, codec.ImpactRecordSize, *limit, printImpact)
	case strings.Contains(base, "processed_tops"):
		dumpFrames(path, *limit)
	case strings.Contains(base, "merged_tops"):
		dumpFixed(path, codec.MergedTopsEntrySize, *limit, printMergedTops)
	case strings.Contains(base, "merged_fills"):
		dumpFixed(path, codec.MergedFillEntrySize, *limit, printMergedFill)
	case strings.Contains(base, "book_tops"):
		dumpFixed(path, codec.TopsRecordSize, *limit, printTops)
	case strings.Contains(base, "book_fills"):
		dumpFixed(path, codec.FillRecordSize, *limit, printFill)
	default:
		log.Fatalf("unrecognized file name %q", filepath.Base(path))
	}
}

func printHeader(h schema.FileHeader) {
	fmt.Printf("feed_id=%d dateint=%d count=%d symbol_idx=%d\n", h.FeedID, h.DateInt, h.Count, h.SymbolIdx)
}

func dumpFixed(path string, recordSize, limit int, print func([]byte)) {
	r, err := recorder.Open(path, recordSize)
	if err != nil {
		log.Fatalf("open failed: %v", err)
	}
	defer r.Close()

	printHeader(r.Header())
	records, remainder := r.Shape()
	if remainder != 0 || records != r.Header().Count {
		fmt.Printf("warning: file holds %d whole records with %d dangling bytes\n", records, remainder)
	}

	for limit == 0 || int(r.Read()) < limit {
		raw, err := r.Next()
		if err == io.EOF {
			return
		}
		if err == recorder.ErrTruncatedRecord {
			fmt.Println("warning: truncated record at tail")
			return
		}
		if err != nil {
			log.Fatalf("read failed: %v", err)
		}
		print(raw)
	}
}

func dumpFrames(path string, limit int) {
	r, err := recorder.OpenFrames(path)
	if err != nil {
		log.Fatalf("open failed: %v", err)
	}
	defer r.Close()

	printHeader(r.Header())
	for limit == 0 || int(r.Read()) < limit {
		s, err := r.Next()
		if err == io.EOF {
			return
		}
		if err == recorder.ErrTruncatedRecord {
			fmt.Println("warning: torn snapshot frame at tail")
			return
		}
		if err != nil {
			log.Fatalf("read failed: %v", err)
		}
		fmt.Printf("ts=%d bids=%d asks=%d\n", s.Ts, len(s.Bids), len(s.Asks))
		printLevels("  bid", s.Bids)
		printLevels("  ask", s.Asks)
	}
}

func printLevels(label string, levels []schema.SnapshotLevel) {
	for i, l := range levels {
		fmt.Printf("%s[%d] price=%d venues=%d:", label, i+1, l.Price, len(l.Venues))
		for _, v := range l.Venues {
			fmt.Printf(" %d@feed%d", v.Qty, v.FeedID)
		}
		fmt.Println()
	}
}

func printTops(raw []byte) {
	rec, _ := codec.DecodeTops(raw)
	fmt.Printf("ts=%d seq=%d", rec.Ts, rec.SeqNo)
	for i, l := range rec.Levels {
		fmt.Printf(" L%d=%d/%d x %d/%d", i+1, l.BidPrice, l.AskPrice, l.BidQty, l.AskQty)
	}
	fmt.Println()
}

func printMergedTops(raw []byte) {
	e, _ := codec.DecodeMergedTops(raw)
	fmt.Printf("feed=%d ", e.FeedID)
	printTops(raw[8:])
}

func printFill(raw []byte) {
	f, _ := codec.DecodeFill(raw)
	fmt.Printf("ts=%d seq=%d price=%d qty=%d exec=%d\n", f.Ts, f.SeqNo, f.TradePrice, f.TradeQty, f.ExecutionID)
}

func printMergedFill(raw []byte) {
	e, _ := codec.DecodeFill(raw[8:])
	feed := binary.LittleEndian.Uint64(raw[0:8])
	fmt.Printf("feed=%d ts=%d seq=%d price=%d qty=%d\n", feed, e.Ts, e.SeqNo, e.TradePrice, e.TradeQty)
}

func printImpact(raw []byte) {
	r, _ := codec.DecodeImpact(raw)
	fmt.Printf("ts=%d seq=%d bid=%g/%d ask=%g/%d\n", r.Ts, r.SeqNo, r.BidPrice, r.BidLevels, r.AskPrice, r.AskLevels)
}
