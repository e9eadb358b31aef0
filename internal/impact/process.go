package impact

import (
	"io"

	"github.com/yanun0323/errors"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

// ErrZeroQuantity rejects a run with nothing to execute.
var ErrZeroQuantity = errors.New("impact: target quantity must be positive")

// Result summarizes one impact run.
type Result struct {
	RecordsIn uint32
	Written   uint32
	Truncated bool
}

// ProcessTops computes the impact stream for a raw venue tops capture.
func ProcessTops(inPath, outPath string, target uint32) (Result, error) {
	return process(inPath, outPath, target, codec.TopsRecordSize, func(raw []byte) (schema.TopsRecord, bool) {
		return codec.DecodeTops(raw)
	})
}

// ProcessMerged computes the impact stream for a merged tops file; the
// venue prefix is irrelevant to the walk and dropped.
func ProcessMerged(inPath, outPath string, target uint32) (Result, error) {
	return process(inPath, outPath, target, codec.MergedTopsEntrySize, func(raw []byte) (schema.TopsRecord, bool) {
		entry, ok := codec.DecodeMergedTops(raw)
		return entry.Tops, ok
	})
}

func process(inPath, outPath string, target uint32, recordSize int, decode func([]byte) (schema.TopsRecord, bool)) (Result, error) {
	var res Result
	if target == 0 {
		return res, ErrZeroQuantity
	}

	r, err := recorder.Open(inPath, recordSize)
	if err != nil {
		return res, errors.Wrap(err, "open tops input")
	}
	defer r.Close()

	w, err := recorder.Create(outPath)
	if err != nil {
		return res, errors.Wrap(err, "create impact output")
	}

	var dedup Dedup
	buf := make([]byte, 0, codec.ImpactRecordSize)
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
			return res, errors.Wrap(err, "read tops input")
		}
		res.RecordsIn++

		rec, _ := decode(raw)
		out := FromTops(rec, target)
		if !dedup.Keep(out) {
			continue
		}
		buf = codec.EncodeImpact(buf, out)
		if err := w.Append(buf); err != nil {
			_ = w.Discard()
			return res, errors.Wrap(err, "write impact record")
		}
	}

	res.Written = w.Count()
	if res.Written == 0 {
		return res, w.Discard()
	}

	header := r.Header()
	if err := w.Patch(header); err != nil {
		return res, errors.Wrap(err, "patch impact header")
	}
	return res, nil
}
