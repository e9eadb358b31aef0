package merge

import (
	"encoding/binary"
	"io"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/yanun0323/errors"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

// ErrNoInputs means no input survived opening; no output file was produced.
var ErrNoInputs = errors.New("merge: no readable inputs")

// Result summarizes one k-way merge.
type Result struct {
	OutPath   string
	Records   uint32
	Inputs    int
	Skipped   []string
	Truncated []string
}

type input struct {
	r      *recorder.Reader
	path   string
	feedID uint64
	idx    int
	ts     uint64
	rec    []byte
}

// Files merges venue capture files for one symbol into a single
// timestamp-ordered stream of venue-tagged entries. Records pop from a
// min-heap keyed on (timestamp, input index), so venues tie stably in
// input order. Each input contributes one buffered record; the merged
// stream never needs to fit in memory.
//
// The output carries the merged feed id sentinel and inherits dateint and
// symbol index from the first input that opened. Inputs that fail to open
// or lack a whole header are skipped and listed in the result.
func Files(paths []string, recordSize int, outPath string) (Result, error) {
	res := Result{OutPath: outPath}

	var (
		inputs []*input
		base   schema.FileHeader
		seen   bool
	)
	defer func() {
		for _, in := range inputs {
			_ = in.r.Close()
		}
	}()

	heap := binaryheap.NewWith(func(a, b interface{}) int {
		x, y := a.(*input), b.(*input)
		if x.ts != y.ts {
			if x.ts < y.ts {
				return -1
			}
			return 1
		}
		return x.idx - y.idx
	})

	for _, path := range paths {
		r, err := recorder.Open(path, recordSize)
		if err != nil {
			res.Skipped = append(res.Skipped, path)
			continue
		}
		header := r.Header()
		if !seen {
			base = header
			seen = true
		}

		in := &input{r: r, path: path, feedID: header.FeedID, idx: len(inputs)}
		inputs = append(inputs, in)

		if ok, truncated := advance(in); ok {
			heap.Push(in)
		} else if truncated {
			res.Truncated = append(res.Truncated, path)
		}
	}
	res.Inputs = len(inputs)

	if !seen {
		return res, ErrNoInputs
	}
	if heap.Empty() {
		return res, nil
	}

	w, err := recorder.Create(outPath)
	if err != nil {
		return res, errors.Wrap(err, "create merged output")
	}

	entry := make([]byte, 8+recordSize)
	for {
		top, ok := heap.Pop()
		if !ok {
			break
		}
		in := top.(*input)

		binary.LittleEndian.PutUint64(entry[0:8], in.feedID)
		copy(entry[8:], in.rec)
		if err := w.Append(entry); err != nil {
			_ = w.Discard()
			return res, errors.Wrap(err, "write merged entry")
		}

		if ok, truncated := advance(in); ok {
			heap.Push(in)
		} else if truncated {
			res.Truncated = append(res.Truncated, in.path)
		}
	}

	res.Records = w.Count()
	if res.Records == 0 {
		return res, w.Discard()
	}

	final := schema.FileHeader{
		FeedID:    schema.MergedFeedID,
		DateInt:   base.DateInt,
		SymbolIdx: base.SymbolIdx,
	}
	if err := w.Patch(final); err != nil {
		return res, errors.Wrap(err, "patch merged header")
	}
	return res, nil
}

// advance pulls the next pending record for an input. The record slice
// aliases the reader's buffer, which stays valid until this input's next
// advance; exhausted and failed inputs simply drop out of the heap.
func advance(in *input) (ok, truncated bool) {
	raw, err := in.r.Next()
	if err == io.EOF {
		return false, false
	}
	if err == recorder.ErrTruncatedRecord {
		return false, true
	}
	if err != nil {
		return false, false
	}
	in.rec = raw
	in.ts = binary.LittleEndian.Uint64(raw[0:8])
	return true, false
}

// TopsFiles merges tops captures; entries grow by the venue prefix.
func TopsFiles(paths []string, outPath string) (Result, error) {
	return Files(paths, codec.TopsRecordSize, outPath)
}

// FillFiles merges fills captures.
func FillFiles(paths []string, outPath string) (Result, error) {
	return Files(paths, codec.FillRecordSize, outPath)
}
