package bars

import (
	"bufio"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/yanun0323/errors"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

// BuildResult reports what one bar build consumed and produced. Truncated
// and CountMismatch are warnings: the bars written before them are valid.
type BuildResult struct {
	RecordsIn     uint32
	BarsOut       [7]int
	Truncated     bool
	CountMismatch bool
	HeaderCount   uint32
}

// Series indices inside BuildResult.BarsOut.
const (
	SeriesFills = iota
	SeriesBidL1
	SeriesBidL2
	SeriesBidL3
	SeriesAskL1
	SeriesAskL2
	SeriesAskL3
)

// TopsBarPaths names the six quote-bar outputs of one tops capture,
// indexed by level (L1 first).
type TopsBarPaths struct {
	Bid [schema.BookLevels]string
	Ask [schema.BookLevels]string
}

// BuildFillsBars folds one fills capture into a trade-bar file. Bar files
// carry no header; records start at offset zero.
func BuildFillsBars(inPath, outPath string) (BuildResult, error) {
	var res BuildResult

	r, err := recorder.Open(inPath, codec.FillRecordSize)
	if err != nil {
		return res, errors.Wrap(err, "open fills")
	}
	defer r.Close()

	records, remainder := r.Shape()
	res.HeaderCount = r.Header().Count
	res.CountMismatch = remainder != 0 || records != res.HeaderCount

	w, err := newBarWriter(outPath)
	if err != nil {
		return res, errors.Wrap(err, "create fills bars")
	}

	var agg TradeAgg
	buf := make([]byte, 0, codec.TradeBarSize)
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
			_ = w.close()
			return res, errors.Wrap(err, "read fills")
		}
		res.RecordsIn++

		fill, _ := codec.DecodeFill(raw)
		if bar, ok := agg.Push(fill.Ts, schema.PriceFloat(fill.TradePrice), fill.TradeQty); ok {
			buf = codec.EncodeTradeBar(buf, bar)
			if err := w.write(buf); err != nil {
				_ = w.close()
				return res, errors.Wrap(err, "write bar")
			}
			res.BarsOut[SeriesFills]++
		}
	}
	if bar, ok := agg.Flush(); ok {
		buf = codec.EncodeTradeBar(buf, bar)
		if err := w.write(buf); err != nil {
			_ = w.close()
			return res, errors.Wrap(err, "write bar")
		}
		res.BarsOut[SeriesFills]++
	}

	if err := w.close(); err != nil {
		return res, errors.Wrap(err, "close fills bars")
	}
	return res, nil
}

// BuildTopsBars folds one tops capture into the six per-level quote-bar
// files, building each series independently under the absence rule.
func BuildTopsBars(inPath string, out TopsBarPaths) (BuildResult, error) {
	var res BuildResult

	r, err := recorder.Open(inPath, codec.TopsRecordSize)
	if err != nil {
		return res, errors.Wrap(err, "open tops")
	}
	defer r.Close()

	records, remainder := r.Shape()
	res.HeaderCount = r.Header().Count
	res.CountMismatch = remainder != 0 || records != res.HeaderCount

	var writers [2][schema.BookLevels]*barWriter
	var aggs [2][schema.BookLevels]QuoteAgg
	paths := [2][schema.BookLevels]string{out.Bid, out.Ask}
	for side := range paths {
		for level, path := range paths[side] {
			w, err := newBarWriter(path)
			if err != nil {
				closeAll(writers)
				return res, errors.Wrap(err, "create quote bars")
			}
			writers[side][level] = w
		}
	}

	seriesIdx := func(side, level int) int {
		if side == 0 {
			return SeriesBidL1 + level
		}
		return SeriesAskL1 + level
	}

	buf := make([]byte, 0, codec.QuoteBarSize)
	flushOne := func(side, level int, bar schema.QuoteBar) error {
		buf = codec.EncodeQuoteBar(buf, bar)
		if err := writers[side][level].write(buf); err != nil {
			return err
		}
		res.BarsOut[seriesIdx(side, level)]++
		return nil
	}

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
			closeAll(writers)
			return res, errors.Wrap(err, "read tops")
		}
		res.RecordsIn++

		rec, _ := codec.DecodeTops(raw)
		for level, l := range rec.Levels {
			if bar, ok := aggs[0][level].Push(rec.Ts, levelPrice(l.HasBid(), l.BidPrice)); ok {
				if err := flushOne(0, level, bar); err != nil {
					closeAll(writers)
					return res, errors.Wrap(err, "write bar")
				}
			}
			if bar, ok := aggs[1][level].Push(rec.Ts, levelPrice(l.HasAsk(), l.AskPrice)); ok {
				if err := flushOne(1, level, bar); err != nil {
					closeAll(writers)
					return res, errors.Wrap(err, "write bar")
				}
			}
		}
	}

	for side := range aggs {
		for level := range aggs[side] {
			if bar, ok := aggs[side][level].Flush(); ok {
				if err := flushOne(side, level, bar); err != nil {
					closeAll(writers)
					return res, errors.Wrap(err, "write bar")
				}
			}
		}
	}

	var closeErr error
	for side := range writers {
		for _, w := range writers[side] {
			if err := w.close(); err != nil && closeErr == nil {
				closeErr = err
			}
		}
	}
	if closeErr != nil {
		return res, errors.Wrap(closeErr, "close quote bars")
	}
	return res, nil
}

func levelPrice(present bool, nanos int64) float64 {
	if !present {
		return math.NaN()
	}
	return schema.PriceFloat(nanos)
}

// barWriter is a plain buffered file writer; bar files are headerless.
type barWriter struct {
	f   *os.File
	buf *bufio.Writer
}

func newBarWriter(path string) (*barWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &barWriter{f: f, buf: bufio.NewWriterSize(f, 64*1024)}, nil
}

func (w *barWriter) write(rec []byte) error {
	_, err := w.buf.Write(rec)
	return err
}

func (w *barWriter) close() error {
	if w == nil {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}

func closeAll(writers [2][schema.BookLevels]*barWriter) {
	for side := range writers {
		for _, w := range writers[side] {
			_ = w.close()
		}
	}
}
