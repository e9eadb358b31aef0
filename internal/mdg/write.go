package mdg

import (
	"strconv"

	"github.com/yanun0323/errors"

	"pricemodeling/internal/codec"
	"pricemodeling/internal/layout"
	"pricemodeling/internal/recorder"
	"pricemodeling/internal/schema"
)

// WriteBooks emits one fills and one tops capture per symbol into the
// venue's books folder, headers included. The symbol index is its position
// in the list.
func WriteBooks(root, date, venue string, feedID uint64, symbols []string, records int) error {
	dateInt, err := strconv.ParseUint(date, 10, 32)
	if err != nil {
		return errors.Wrap(err, "date must be yyyymmdd")
	}

	g, err := NewGenerator(feedID, 100*schema.NanosPerUnit, schema.NanosPerUnit/4, 5)
	if err != nil {
		return err
	}

	const startTs = 1_000_000_000
	for idx, symbol := range symbols {
		header := schema.FileHeader{
			FeedID:    feedID,
			DateInt:   uint32(dateInt),
			SymbolIdx: uint64(idx),
		}

		fillsPath := layout.BookFile(root, date, venue, layout.KindFills, symbol)
		if err := writeRecords(fillsPath, header, func(w *recorder.Writer) error {
			var buf []byte
			for _, rec := range g.Fills(uint64(idx), records, startTs) {
				buf = codec.EncodeFill(buf, rec)
				if err := w.Append(buf); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return errors.Wrap(err, "write fills capture")
		}

		topsPath := layout.BookFile(root, date, venue, layout.KindTops, symbol)
		if err := writeRecords(topsPath, header, func(w *recorder.Writer) error {
			var buf []byte
			for _, rec := range g.Tops(uint64(idx), records, startTs) {
				buf = codec.EncodeTops(buf, rec)
				if err := w.Append(buf); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return errors.Wrap(err, "write tops capture")
		}
	}
	return nil
}

func writeRecords(path string, header schema.FileHeader, fill func(*recorder.Writer) error) error {
	w, err := recorder.Create(path)
	if err != nil {
		return err
	}
	if err := fill(w); err != nil {
		_ = w.Discard()
		return err
	}
	return w.Patch(header)
}
