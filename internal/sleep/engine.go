package sleep

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/analyzers"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/series"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/windowing"
)

// Default file layout under the data directory. {subject} is replaced by
// the subject identifier.
const (
	DefaultMotionPattern = "motion/{subject}_acceleration.txt"
	DefaultLabelsPattern = "labels/{subject}_labeled_sleep.txt"
)

// FeatureEngine runs the extraction pipeline for one subject at a time
type FeatureEngine struct {
	logger        logging.Logger
	dataDir       string
	motionPattern string
	labelsPattern string
	features      config.FeatureConfig
	grouper       LabelGrouper
	analyzer      *analyzers.SpectralAnalyzer
}

// EngineConfig contains configuration for the feature engine
type EngineConfig struct {
	DataDir       string
	MotionPattern string
	LabelsPattern string
	Features      config.FeatureConfig
	// Grouper overrides the grouper selected by Features.LabelScheme.
	Grouper LabelGrouper
	Logger  logging.Logger
}

// NewFeatureEngine creates a new feature engine
func NewFeatureEngine(cfg *EngineConfig) (*FeatureEngine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	if err := cfg.Features.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature configuration: %w", err)
	}

	grouper := cfg.Grouper
	if grouper == nil {
		var err error
		grouper, err = GrouperFor(cfg.Features.LabelScheme)
		if err != nil {
			return nil, err
		}
		if err := cfg.Features.ValidateClasses(); err != nil {
			return nil, fmt.Errorf("invalid feature configuration: %w", err)
		}
	}

	motionPattern := cfg.MotionPattern
	if motionPattern == "" {
		motionPattern = DefaultMotionPattern
	}
	labelsPattern := cfg.LabelsPattern
	if labelsPattern == "" {
		labelsPattern = DefaultLabelsPattern
	}

	return &FeatureEngine{
		logger:        logger,
		dataDir:       cfg.DataDir,
		motionPattern: motionPattern,
		labelsPattern: labelsPattern,
		features:      cfg.Features,
		grouper:       grouper,
		analyzer:      analyzers.NewSpectralAnalyzer(cfg.Features.Spectral, logger),
	}, nil
}

// Features returns the pipeline configuration the engine runs with
func (e *FeatureEngine) Features() config.FeatureConfig {
	return e.features
}

// MotionPath returns the acceleration file path for a subject
func (e *FeatureEngine) MotionPath(subject string) string {
	return filepath.Join(e.dataDir, strings.ReplaceAll(e.motionPattern, "{subject}", subject))
}

// LabelsPath returns the label file path for a subject
func (e *FeatureEngine) LabelsPath(subject string) string {
	return filepath.Join(e.dataDir, strings.ReplaceAll(e.labelsPattern, "{subject}", subject))
}

// LoadSubject reads a subject's acceleration file and returns the raw
// recording together with its magnitude and derivative series.
func (e *FeatureEngine) LoadSubject(subject string) (*series.Preprocessed, error) {
	path := e.MotionPath(subject)

	e.logger.Debug("Loading acceleration", logging.Fields{
		"subject":      subject,
		"path":         path,
		"non_negative": e.features.NonNegative,
	})

	acc, err := series.ReadAccelerationFile(path, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to read acceleration for subject %s: %w", subject, err)
	}

	pre, err := series.Preprocess(acc, e.features.NonNegative)
	if err != nil {
		return nil, fmt.Errorf("failed to preprocess subject %s: %w", subject, err)
	}

	e.logger.Debug("Acceleration preprocessed", logging.Fields{
		"subject":           subject,
		"samples":           len(pre.Acceleration.Samples),
		"derivative_points": pre.Derivative.Len(),
		"mean_interval":     pre.Derivative.Stat,
	})

	return pre, nil
}

// LoadLabels reads a subject's scored stage file
func (e *FeatureEngine) LoadLabels(subject string) (series.Labels, error) {
	labels, err := series.ReadLabelsFile(e.LabelsPath(subject), subject)
	if err != nil {
		return series.Labels{}, fmt.Errorf("failed to read labels for subject %s: %w", subject, err)
	}
	return labels, nil
}

// Summarize describes a preprocessed recording
func (e *FeatureEngine) Summarize(pre *series.Preprocessed) SeriesSummary {
	summary := SeriesSummary{
		Subject:          pre.Acceleration.Subject,
		Samples:          len(pre.Time),
		DerivativePoints: pre.Derivative.Len(),
		MeanInterval:     pre.Derivative.Stat,
	}
	if lo, hi, ok := windowing.Span(pre.Time); ok {
		summary.Start, summary.End = lo, hi
	}
	summary.MagnitudeMean, summary.MagnitudeStdDev = stat.MeanStdDev(pre.Magnitude, nil)
	return summary
}

// PeriodogramChunks evaluates a Lomb-Scargle periodogram on every
// fixed-interval chunk of (time, value). All chunks share one frequency
// grid. An empty chunk fails the whole call.
func (e *FeatureEngine) PeriodogramChunks(time, value []float64) (*ChunkedPeriodogram, error) {
	return e.PeriodogramChunksWithMax(time, value, e.features.Spectral.MaxFrequency)
}

// PeriodogramChunksWithMax is PeriodogramChunks with an explicit upper grid
// frequency.
func (e *FeatureEngine) PeriodogramChunksWithMax(time, value []float64, maxFreq float64) (*ChunkedPeriodogram, error) {
	if len(time) != len(value) {
		return nil, series.NewDataFormatError("", 0,
			fmt.Sprintf("time and value lengths differ (%d != %d)", len(time), len(value)), nil)
	}
	tMin, tMax, ok := windowing.Span(time)
	if !ok {
		return nil, series.NewDataFormatError("", 0, "periodogram input is empty", nil)
	}

	grid := analyzers.FrequencyGrid(e.features.Spectral.GridSize, maxFreq)
	windows := windowing.FixedIntervalWindows(tMin, tMax, windowing.PolicyFromConfig(e.features.Chunks))
	segments := windowing.Select(time, value, windows)

	opts := analyzers.PeriodogramOptions{
		Precenter: e.features.Spectral.Precenter,
		Normalize: e.features.Spectral.Normalize,
	}

	e.logger.Debug("Computing chunked periodograms", logging.Fields{
		"chunks":    len(segments),
		"grid_size": len(grid),
		"max_freq":  maxFreq,
		"span":      tMax - tMin,
	})

	result := &ChunkedPeriodogram{
		Frequencies: grid,
		Chunks:      make([]PeriodogramChunk, 0, len(segments)),
	}
	for _, seg := range segments {
		pgram, err := analyzers.LombScargle(seg.Time, seg.Value, grid, opts)
		if err != nil {
			return nil, fmt.Errorf("periodogram of chunk %d [%g, %g]: %w", seg.Index, seg.Start, seg.End, err)
		}
		result.Chunks = append(result.Chunks, PeriodogramChunk{
			Window:  seg.Window,
			Samples: pgram.Samples,
			Power:   pgram.Power,
		})
	}
	return result, nil
}

// AverageTransforms loads a subject's recording and labels and returns the
// label-grouped, time-averaged spectral profiles.
func (e *FeatureEngine) AverageTransforms(subject string) (*GroupedProfiles, error) {
	pre, err := e.LoadSubject(subject)
	if err != nil {
		return nil, err
	}
	labels, err := e.LoadLabels(subject)
	if err != nil {
		return nil, err
	}
	return e.AverageTransformsFromSeries(pre.Derivative, labels)
}

// AverageTransformsFromSeries groups profiles of an already preprocessed
// derivative series.
func (e *FeatureEngine) AverageTransformsFromSeries(deriv *series.DerivativeSeries, labels series.Labels) (*GroupedProfiles, error) {
	grouped, err := Aggregate(deriv, labels, e.analyzer, AggregateOptions{
		Classes:          e.features.ResolvedClasses(),
		Grouper:          e.grouper,
		LabelWidth:       e.features.Chunks.LabelWidth,
		MinSegmentLength: e.features.Spectral.MinSegmentLength,
		Decibel:          e.features.Spectral.Decibel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transforms for subject %s: %w", labels.Subject, err)
	}

	grouped.ClassNames = make(map[int]string, len(grouped.Classes))
	for _, class := range grouped.Classes {
		grouped.ClassNames[class] = ClassName(e.features.LabelScheme, class)
		count := grouped.Counts[class]
		if count.Valid() == 0 {
			e.logger.Debug("Class has no valid segments", logging.Fields{
				"subject":  labels.Subject,
				"class":    class,
				"segments": count.Segments,
			})
		}
	}

	e.logger.Debug("Transforms aggregated", logging.Fields{
		"subject": labels.Subject,
		"classes": len(grouped.Classes),
		"decibel": grouped.Decibel,
	})

	return grouped, nil
}

// Transform computes the STFT of the derivative samples in [r.Start, r.Stop]
// and applies the requested reductions. A range holding fewer samples than
// the minimum segment length returns an error matching
// analyzers.ErrInsufficientSegmentLength.
func (e *FeatureEngine) Transform(deriv *series.DerivativeSeries, r TransformRange, opts TransformOptions) (*analyzers.ReducedSpectrum, error) {
	if deriv == nil {
		return nil, fmt.Errorf("derivative series is required")
	}
	if r.Stop < r.Start {
		return nil, fmt.Errorf("invalid range: stop %g before start %g", r.Stop, r.Start)
	}

	seg := windowing.Select(deriv.Time, deriv.Value, []windowing.Window{{Start: r.Start, End: r.Stop}})[0]
	if seg.Len() < e.features.Spectral.MinSegmentLength {
		return nil, &analyzers.InsufficientSegmentLengthError{
			Length:  seg.Len(),
			Minimum: e.features.Spectral.MinSegmentLength,
		}
	}

	return e.analyzer.Reduce(seg.Value, analyzers.ReduceOptions{
		Decibel: opts.Decibel,
		Mean:    opts.Mean,
	})
}
