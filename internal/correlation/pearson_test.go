package correlation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) + 1
	}
	return out
}

func TestPearsonSelfAndNegation(t *testing.T) {
	x := ramp(12)

	r, ok := Pearson(x, x)
	require.True(t, ok)
	require.InDelta(t, 1.0, r, 1e-12)

	neg := make([]float64, len(x))
	for i, v := range x {
		neg[i] = -v
	}
	r, ok = Pearson(x, neg)
	require.True(t, ok)
	require.InDelta(t, -1.0, r, 1e-12)
}

func TestPearsonConstantSeriesDegenerate(t *testing.T) {
	x := ramp(12)
	constant := make([]float64, len(x))
	for i := range constant {
		constant[i] = 5
	}

	_, ok := Pearson(x, constant)
	require.False(t, ok, "constant series must yield no result, not zero")
}

func TestPearsonRejectsShortOrMismatched(t *testing.T) {
	_, ok := Pearson([]float64{1}, []float64{1})
	require.False(t, ok)
	_, ok = Pearson(ramp(5), ramp(6))
	require.False(t, ok)
}

func TestTrimDecimatesLonger(t *testing.T) {
	long := ramp(20)
	short := ramp(10)

	a, b := TrimToSameLength(long, short)
	require.Len(t, a, 10)
	require.Len(t, b, 10)
	require.Equal(t, long[0], a[0], "first element stays aligned")
	require.Equal(t, []float64{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}, a)
}

func TestTrimUnevenStride(t *testing.T) {
	long := ramp(25)
	short := ramp(10)

	a, b := TrimToSameLength(long, short)
	// stride floor(25/10)=2: every second element until the shorter length
	// is reached.
	require.Len(t, a, 10)
	require.Len(t, b, 10)
	require.Equal(t, 1.0, a[0])
	require.Equal(t, 3.0, a[1])
}

func TestOverallSkipsInvalidComponents(t *testing.T) {
	var values [ComponentCount]float64
	var valid [ComponentCount]bool
	values[ComponentFills] = 0.8
	valid[ComponentFills] = true
	values[ComponentBidL1] = 0.4
	valid[ComponentBidL1] = true

	overall, ok := Overall(values, valid)
	require.True(t, ok)
	// Normalized by the sum of valid weights, not by one.
	require.InDelta(t, (0.8*0.125+0.4*0.125)/0.25, overall, 1e-12)
}

func TestOverallNoValidComponents(t *testing.T) {
	var values [ComponentCount]float64
	var valid [ComponentCount]bool
	_, ok := Overall(values, valid)
	require.False(t, ok)
}

func TestOverallAllComponentsKeepPlainAverage(t *testing.T) {
	var values [ComponentCount]float64
	var valid [ComponentCount]bool
	for i := range values {
		values[i] = 0.5
		valid[i] = true
	}
	overall, ok := Overall(values, valid)
	require.True(t, ok)
	require.False(t, math.IsNaN(overall))
	require.InDelta(t, 0.5, overall, 1e-12)
}
