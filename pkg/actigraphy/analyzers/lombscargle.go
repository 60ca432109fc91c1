package analyzers

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

// PeriodogramOptions controls the Lomb-Scargle estimator
type PeriodogramOptions struct {
	// Precenter subtracts the mean of y before evaluation.
	Precenter bool `json:"precenter"`
	// Normalize scales the result by 2/sum(y^2).
	Normalize bool `json:"normalize"`
}

// PeriodogramResult is a Lomb-Scargle estimate on a frequency grid
type PeriodogramResult struct {
	Frequencies []float64 `json:"frequencies"` // angular, rad/s
	Power       []float64 `json:"power"`
	Samples     int       `json:"samples"`
}

// FrequencyGrid returns n angular frequencies linearly spaced over
// [1e-4, maxFreq+1e-4].
func FrequencyGrid(n int, maxFreq float64) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{config.DefaultGridOffset}
	}
	return floats.Span(make([]float64, n), config.DefaultGridOffset, maxFreq+config.DefaultGridOffset)
}

// LombScargle evaluates the Lomb-Scargle periodogram of the irregularly
// sampled series (t, y) at the given angular frequencies. Frequencies must
// be non-zero. A term whose denominator vanishes contributes zero.
func LombScargle(t, y, freqs []float64, opts PeriodogramOptions) (*PeriodogramResult, error) {
	if len(t) != len(y) {
		return nil, fmt.Errorf("time and value lengths differ (%d != %d)", len(t), len(y))
	}
	if len(t) == 0 {
		return nil, errors.New("periodogram of empty series")
	}

	values := y
	if opts.Precenter {
		values = make([]float64, len(y))
		copy(values, y)
		floats.AddConst(-stat.Mean(y, nil), values)
	}

	power := make([]float64, len(freqs))
	for i, w := range freqs {
		if w == 0 {
			return nil, fmt.Errorf("frequency %d is zero", i)
		}

		var xc, xs, cc, ss, cs float64
		for j, tj := range t {
			s, c := math.Sincos(w * tj)
			xc += values[j] * c
			xs += values[j] * s
			cc += c * c
			ss += s * s
			cs += c * s
		}

		tau := math.Atan2(2*cs, cc-ss) / (2 * w)
		sTau, cTau := math.Sincos(w * tau)
		cTau2 := cTau * cTau
		sTau2 := sTau * sTau
		csTau := 2 * cTau * sTau

		// cc+ss == len(t); denominators below eps*len(t) are rounding noise
		eps := 1e-12 * (cc + ss)
		power[i] = 0.5 * (ratio(cTau*xc+sTau*xs, cTau2*cc+csTau*cs+sTau2*ss, eps) +
			ratio(cTau*xs-sTau*xc, cTau2*ss-csTau*cs+sTau2*cc, eps))
	}

	if opts.Normalize {
		energy := floats.Dot(values, values)
		if energy > 0 {
			floats.Scale(2/energy, power)
		}
	}

	return &PeriodogramResult{
		Frequencies: freqs,
		Power:       power,
		Samples:     len(t),
	}, nil
}

func ratio(num, den, eps float64) float64 {
	if den <= eps {
		return 0
	}
	return num * num / den
}
