package analyzers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

func TestFrequencyGrid(t *testing.T) {
	grid := FrequencyGrid(config.DefaultGridSize, config.DefaultMaxFrequency)

	require.Len(t, grid, 500)
	assert.InDelta(t, 1e-4, grid[0], 1e-15)
	assert.InDelta(t, 4*math.Pi/0.5+1e-4, grid[499], 1e-12)
	step := grid[1] - grid[0]
	for i := 2; i < len(grid); i++ {
		assert.InDelta(t, step, grid[i]-grid[i-1], 1e-9)
	}

	assert.Equal(t, []float64{1e-4}, FrequencyGrid(1, 10))
	assert.Nil(t, FrequencyGrid(0, 10))
}

// At a Fourier frequency of evenly spaced data the periodogram reduces to
// (xc^2 + xs^2) / N.
func TestLombScargleFourierFrequency(t *testing.T) {
	const n = 100
	w := 2 * math.Pi * 5 / n

	times := make([]float64, n)
	y := make([]float64, n)
	shifted := make([]float64, n)
	for i := range times {
		times[i] = float64(i)
		y[i] = math.Cos(w * times[i])
		shifted[i] = y[i] + 3
	}

	result, err := LombScargle(times, y, []float64{w}, PeriodogramOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 25, result.Power[0], 1e-6)
	assert.Equal(t, n, result.Samples)

	normalized, err := LombScargle(times, y, []float64{w}, PeriodogramOptions{Normalize: true})
	require.NoError(t, err)
	assert.InDelta(t, 1, normalized.Power[0], 1e-6)

	centered, err := LombScargle(times, shifted, []float64{w}, PeriodogramOptions{Precenter: true})
	require.NoError(t, err)
	assert.InDelta(t, 25, centered.Power[0], 1e-6)
	assert.Equal(t, 3.0, shifted[0]-y[0], "input must not be modified")
}

func TestLombScargleIrregularPeak(t *testing.T) {
	w0 := 1.3
	times := make([]float64, 0, 400)
	for i := 0; i < 400; i++ {
		times = append(times, float64(i)*0.37+0.05*math.Sin(float64(i)))
	}
	y := make([]float64, len(times))
	for i, ti := range times {
		y[i] = math.Sin(w0 * ti)
	}

	freqs := []float64{0.5, 0.9, w0, 1.7, 2.4}
	result, err := LombScargle(times, y, freqs, PeriodogramOptions{})
	require.NoError(t, err)

	for i, p := range result.Power {
		if freqs[i] != w0 {
			assert.Less(t, p, result.Power[2], "frequency %g", freqs[i])
		}
	}
}

func TestLombScargleErrors(t *testing.T) {
	_, err := LombScargle(nil, nil, []float64{1}, PeriodogramOptions{})
	assert.Error(t, err)

	_, err = LombScargle([]float64{0, 1}, []float64{1}, []float64{1}, PeriodogramOptions{})
	assert.Error(t, err)

	_, err = LombScargle([]float64{0, 1}, []float64{1, 2}, []float64{0}, PeriodogramOptions{})
	assert.Error(t, err)
}

func TestLombScargleSingleSampleIsFinite(t *testing.T) {
	result, err := LombScargle([]float64{2}, []float64{1}, FrequencyGrid(20, 5), PeriodogramOptions{})
	require.NoError(t, err)
	for _, p := range result.Power {
		assert.False(t, math.IsNaN(p) || math.IsInf(p, 0))
	}
}
