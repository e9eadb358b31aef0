package correlation

import "math"

// MinSeriesLength is the shortest series a pair may correlate over after
// trimming.
const MinSeriesLength = 10

// epsilon bounds the denominator below which a correlation is degenerate
// (constant series) and yields no result rather than zero.
const epsilon = 1e-9

// Pearson computes the correlation coefficient of two equal-length series
// with single-pass sums. ok is false for short, mismatched or degenerate
// input.
func Pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, false
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
		sumYY += y[i] * y[i]
	}

	fn := float64(n)
	numerator := fn*sumXY - sumX*sumY
	denomX := fn*sumXX - sumX*sumX
	denomY := fn*sumYY - sumY*sumY
	if denomX < epsilon || denomY < epsilon {
		return 0, false
	}

	denominator := math.Sqrt(denomX * denomY)
	if math.Abs(denominator) < epsilon {
		return 0, false
	}
	return numerator / denominator, true
}

// TrimToSameLength equalizes two series by decimating the longer one with
// stride floor(longer/shorter), keeping the first element aligned.
func TrimToSameLength(a, b []float64) ([]float64, []float64) {
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}
	switch {
	case len(a) > len(b):
		return decimate(a, len(b)), b
	case len(b) > len(a):
		return a, decimate(b, len(a))
	default:
		return a, b
	}
}

func decimate(long []float64, n int) []float64 {
	step := len(long) / n
	if step < 1 {
		step = 1
	}
	out := make([]float64, 0, n)
	for i := 0; i < len(long) && len(out) < n; i += step {
		out = append(out, long[i])
	}
	return out
}
