package series

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DerivativeResult is the output of Derivative
type DerivativeResult struct {
	Stat  float64
	Time  []float64
	Value []float64
}

// Magnitude returns the Euclidean norm of (x, y, z) for every sample
func Magnitude(samples []Sample) []float64 {
	mag := make([]float64, len(samples))
	for i, s := range samples {
		mag[i] = math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	}
	return mag
}

// Derivative computes the forward-difference derivative of value over time.
// Value[i] = (value[i+1]-value[i]) / (time[i+1]-time[i]) and Time[i] = time[i].
// Stat is the mean sampling interval.
func Derivative(time, value []float64) (DerivativeResult, error) {
	if len(time) != len(value) {
		return DerivativeResult{}, NewDataFormatError("", 0,
			fmt.Sprintf("time and value lengths differ (%d != %d)", len(time), len(value)), nil)
	}
	if len(time) < 2 {
		return DerivativeResult{}, NewDataFormatError("", 0,
			fmt.Sprintf("derivative needs at least 2 samples, got %d", len(time)), nil)
	}

	n := len(time) - 1
	outTime := make([]float64, n)
	outValue := make([]float64, n)
	steps := make([]float64, n)

	for i := range n {
		dt := time[i+1] - time[i]
		if dt <= 0 {
			return DerivativeResult{}, NewDataFormatError("", 0,
				fmt.Sprintf("timestamps must increase: t[%d]=%g, t[%d]=%g", i, time[i], i+1, time[i+1]), nil)
		}
		outTime[i] = time[i]
		outValue[i] = (value[i+1] - value[i]) / dt
		steps[i] = dt
	}

	return DerivativeResult{
		Stat:  stat.Mean(steps, nil),
		Time:  outTime,
		Value: outValue,
	}, nil
}

// Preprocess optionally drops negative timestamps, then computes the
// magnitude and derivative series of the recording.
func Preprocess(acc Acceleration, nonNegative bool) (*Preprocessed, error) {
	if nonNegative {
		acc = acc.NonNegative()
	}
	if len(acc.Samples) < 2 {
		return nil, NewDataFormatError(acc.Subject, 0,
			fmt.Sprintf("recording has %d usable samples, at least 2 required", len(acc.Samples)), nil)
	}

	times := acc.Times()
	mag := Magnitude(acc.Samples)

	deriv, err := Derivative(times, mag)
	if err != nil {
		return nil, fmt.Errorf("failed to differentiate magnitude for %q: %w", acc.Subject, err)
	}

	return &Preprocessed{
		Acceleration: acc,
		Time:         times,
		Magnitude:    mag,
		Derivative: &DerivativeSeries{
			Time:  deriv.Time,
			Value: deriv.Value,
			Stat:  deriv.Stat,
		},
	}, nil
}
