package sleep

import (
	"fmt"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/analyzers"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/series"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/windowing"
)

// AggregateOptions controls label-bounded aggregation
type AggregateOptions struct {
	Classes          []int
	Grouper          LabelGrouper
	LabelWidth       float64
	MinSegmentLength int
	Decibel          bool
}

// Aggregate cuts a label window [t, t+LabelWidth] out of the derivative
// series at every label time, drops windows shorter than MinSegmentLength
// and reduces the rest to time-averaged spectral profiles grouped by class.
// A class with no valid window gets an empty profile list, not an error.
func Aggregate(deriv *series.DerivativeSeries, labels series.Labels, analyzer *analyzers.SpectralAnalyzer, opts AggregateOptions) (*GroupedProfiles, error) {
	if deriv == nil {
		return nil, fmt.Errorf("derivative series is required")
	}
	grouper := opts.Grouper
	if grouper == nil {
		grouper = TwoClassGrouper
	}

	starts := make(map[int][]float64, len(opts.Classes))
	for _, item := range labels.Items {
		if class, ok := grouper(item.Stage); ok {
			starts[class] = append(starts[class], item.Time)
		}
	}

	result := &GroupedProfiles{
		Subject:     labels.Subject,
		Classes:     append([]int(nil), opts.Classes...),
		Frequencies: analyzer.Frequencies(),
		Profiles:    make(map[int][][]float64, len(opts.Classes)),
		Counts:      make(map[int]ClassCount, len(opts.Classes)),
		Decibel:     opts.Decibel,
	}

	reduce := analyzers.ReduceOptions{Decibel: opts.Decibel, Mean: true}
	for _, class := range opts.Classes {
		windows := windowing.LabelWindows(starts[class], opts.LabelWidth)
		segments := windowing.Select(deriv.Time, deriv.Value, windows)

		profiles := make([][]float64, 0, len(segments))
		count := ClassCount{Segments: len(segments)}
		for _, seg := range segments {
			if seg.Len() < opts.MinSegmentLength {
				count.Dropped++
				continue
			}
			spectrum, err := analyzer.Reduce(seg.Value, reduce)
			if err != nil {
				return nil, fmt.Errorf("failed to transform class %d window at %gs: %w", class, seg.Start, err)
			}
			profiles = append(profiles, spectrum.Profile)
		}

		result.Profiles[class] = profiles
		result.Counts[class] = count
	}

	return result, nil
}
