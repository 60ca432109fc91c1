package series

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnitude(t *testing.T) {
	samples := []Sample{
		{Time: 0, X: 3, Y: 4, Z: 0},
		{Time: 1, X: 1, Y: 2, Z: 2},
		{Time: 2, X: 0, Y: 0, Z: 0},
	}

	assert.InDeltaSlice(t, []float64{5, 3, 0}, Magnitude(samples), 1e-12)
}

func TestDerivativeForwardDifference(t *testing.T) {
	time := []float64{0, 0.5, 1.5, 2, 4}
	value := []float64{1, 2, 0, 3, 3}

	result, err := Derivative(time, value)
	require.NoError(t, err)

	require.Len(t, result.Time, len(time)-1)
	require.Len(t, result.Value, len(time)-1)
	for i := range result.Value {
		want := (value[i+1] - value[i]) / (time[i+1] - time[i])
		assert.InDelta(t, want, result.Value[i], 1e-12, "derivative %d", i)
		assert.Equal(t, time[i], result.Time[i])
	}
	assert.InDelta(t, 1.0, result.Stat, 1e-12)
}

func TestDerivativeRejectsShortInput(t *testing.T) {
	for _, n := range []int{0, 1} {
		_, err := Derivative(make([]float64, n), make([]float64, n))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDataFormat), "n=%d", n)
	}
}

func TestDerivativeRejectsUnorderedTime(t *testing.T) {
	_, err := Derivative([]float64{0, 1, 1}, []float64{0, 1, 2})
	require.Error(t, err)

	var formatErr *DataFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Contains(t, formatErr.Message, "timestamps must increase")
}

func TestPreprocessFiltersNegativeTime(t *testing.T) {
	acc := Acceleration{
		Subject: "s1",
		Samples: []Sample{
			{Time: -2, X: 1},
			{Time: -1, X: 1},
			{Time: 0, X: 1},
			{Time: 1, Y: 2},
			{Time: 2, Z: -4},
		},
	}

	pre, err := Preprocess(acc, true)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2}, pre.Time)
	assert.InDeltaSlice(t, []float64{1, 2, 4}, pre.Magnitude, 1e-12)
	assert.Equal(t, 2, pre.Derivative.Len())
	assert.InDeltaSlice(t, []float64{1, 2}, pre.Derivative.Value, 1e-12)
	assert.Len(t, acc.Samples, 5, "input must not be mutated")

	all, err := Preprocess(acc, false)
	require.NoError(t, err)
	assert.Equal(t, 4, all.Derivative.Len())
}

func TestPreprocessDerivativeLength(t *testing.T) {
	const n = 257
	acc := Acceleration{Samples: make([]Sample, n)}
	for i := range acc.Samples {
		ts := float64(i) * 0.02
		acc.Samples[i] = Sample{Time: ts, X: math.Sin(ts), Y: math.Cos(ts), Z: 1}
	}

	pre, err := Preprocess(acc, true)
	require.NoError(t, err)
	require.Equal(t, n-1, pre.Derivative.Len())

	for i := 0; i < n-1; i++ {
		want := (pre.Magnitude[i+1] - pre.Magnitude[i]) / (pre.Time[i+1] - pre.Time[i])
		assert.InDelta(t, want, pre.Derivative.Value[i], 1e-9)
	}
}

func TestPreprocessTooFewSamples(t *testing.T) {
	acc := Acceleration{Subject: "s2", Samples: []Sample{{Time: -1}, {Time: 3}}}

	_, err := Preprocess(acc, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataFormat)
	assert.Contains(t, err.Error(), "s2")
}
