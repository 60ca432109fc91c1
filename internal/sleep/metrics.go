package sleep

import (
	"math"
	"sort"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"
)

// SummaryCalculator derives per-class statistics from grouped profiles
type SummaryCalculator struct {
	logger logging.Logger
}

// NewSummaryCalculator creates a new summary calculator
func NewSummaryCalculator(logger logging.Logger) *SummaryCalculator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SummaryCalculator{
		logger: logger,
	}
}

// LevelStats represents statistical measures of profile levels
type LevelStats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	P95    float64 `json:"p95" yaml:"p95"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Count  int     `json:"count" yaml:"count"`
}

// ClassSummary describes the profiles of one class
type ClassSummary struct {
	Class    int         `json:"class" yaml:"class"`
	Name     string      `json:"name" yaml:"name"`
	Segments int         `json:"segments" yaml:"segments"`
	Dropped  int         `json:"dropped" yaml:"dropped"`
	DropRate float64     `json:"drop_rate" yaml:"drop_rate"`
	Level    *LevelStats `json:"level" yaml:"level"`
	// PeakBin is the frequency bin with the highest mean level across
	// the class; -1 when the class has no profiles.
	PeakBin int `json:"peak_bin" yaml:"peak_bin"`
}

// Summarize computes one ClassSummary per requested class, in class order
func (sc *SummaryCalculator) Summarize(grouped *GroupedProfiles) []ClassSummary {
	summaries := make([]ClassSummary, 0, len(grouped.Classes))

	for _, class := range grouped.Classes {
		profiles := grouped.Profiles[class]
		count := grouped.Counts[class]

		summary := ClassSummary{
			Class:    class,
			Name:     grouped.ClassNames[class],
			Segments: count.Segments,
			Dropped:  count.Dropped,
			PeakBin:  -1,
		}
		if count.Segments > 0 {
			summary.DropRate = float64(count.Dropped) / float64(count.Segments)
		}

		levels := make([]float64, 0, len(profiles))
		for _, p := range profiles {
			levels = append(levels, stat.Mean(p, nil))
		}
		summary.Level = sc.calculateStats(levels)

		if len(profiles) > 0 {
			summary.PeakBin = peakBin(profiles)
		}

		summaries = append(summaries, summary)
	}

	sc.logger.Debug("Class summaries calculated", logging.Fields{
		"subject": grouped.Subject,
		"classes": len(summaries),
	})

	return summaries
}

func peakBin(profiles [][]float64) int {
	mean := make([]float64, len(profiles[0]))
	for _, p := range profiles {
		for f, v := range p {
			mean[f] += v / float64(len(profiles))
		}
	}
	best := 0
	for f := range mean {
		if mean[f] > mean[best] {
			best = f
		}
	}
	return best
}

// calculateStats calculates statistical measures for a dataset
func (sc *SummaryCalculator) calculateStats(data []float64) *LevelStats {
	if len(data) == 0 {
		return &LevelStats{Count: 0}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	stats := &LevelStats{
		Count:  len(data),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	stats.Mean, stats.StdDev = stat.PopMeanStdDev(data, nil)

	return sanitizeStats(stats)
}

// sanitizeStats replaces infinite and NaN values so the result serializes
func sanitizeStats(stats *LevelStats) *LevelStats {
	for _, v := range []*float64{&stats.Mean, &stats.Median, &stats.P95, &stats.Min, &stats.Max, &stats.StdDev} {
		if math.IsInf(*v, 0) || math.IsNaN(*v) {
			*v = 0
		}
	}
	return stats
}
