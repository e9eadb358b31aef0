package book

import (
	"io"

	"github.com/yanun0323/errors"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

// ProcessResult summarizes one consolidation run.
type ProcessResult struct {
	RecordsIn uint32
	Snapshots uint32
	Truncated bool
}

// Process consolidates one merged tops file into a snapshot file. The
// output uses the placeholder-then-patch header discipline with the merged
// feed id sentinel; a run that emits no snapshots leaves no output behind.
func Process(inPath, outPath string) (ProcessResult, error) {
	var res ProcessResult

	r, err := recorder.Open(inPath, codec.MergedTopsEntrySize)
	if err != nil {
		return res, errors.Wrap(err, "open merged tops")
	}
	defer r.Close()

	w, err := recorder.Create(outPath)
	if err != nil {
		return res, errors.Wrap(err, "create snapshot output")
	}

	builder := NewBuilder()
	var buf []byte
	for {
		raw, err := r.Next()
		if err == io.EOF {
			break
		}
		if err == recorder.ErrTruncatedRecord {
			res.Truncated = true
			break
		}
		if err != nil {
			_ = w.Discard()
			return res, errors.Wrap(err, "read merged tops")
		}
		res.RecordsIn++

		entry, _ := codec.DecodeMergedTops(raw)
		snapshot, ok := builder.Update(entry)
		if !ok {
			continue
		}
		buf = codec.EncodeSnapshot(buf, snapshot)
		if err := w.Append(buf); err != nil {
			_ = w.Discard()
			return res, errors.Wrap(err, "write snapshot")
		}
	}

	res.Snapshots = w.Count()
	if res.Snapshots == 0 {
		return res, w.Discard()
	}

	header := schema.FileHeader{
		FeedID:    schema.MergedFeedID,
		DateInt:   r.Header().DateInt,
		SymbolIdx: r.Header().SymbolIdx,
	}
	if err := w.Patch(header); err != nil {
		return res, errors.Wrap(err, "patch snapshot header")
	}
	return res, nil
}
