package correlation

import (
	"encoding/csv"
	"os"

	"github.com/shopspring/decimal"
)

// PairResult is one symbol pair's overall correlation.
type PairResult struct {
	Symbol1 string
	Symbol2 string
	Overall float64
}

// WriteCSV writes pair results with the fixed header row; values carry
// exactly four decimals.
func WriteCSV(path string, results []PairResult) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol1", "symbol2", "overall_correlation"}); err != nil {
		_ = f.Close()
		return err
	}
	for _, r := range results {
		row := []string{
			r.Symbol1,
			r.Symbol2,
			decimal.NewFromFloat(r.Overall).Round(4).StringFixed(4),
		}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
