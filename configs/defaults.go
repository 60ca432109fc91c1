package configs

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sleep-spectra/internal/sleep"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

// setDefaults registers default values for every key. Values coming from a
// config file, the environment or a bound flag take precedence.
func setDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()

	// Application defaults
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("output_format", defaults.OutputFormat)

	// Data defaults
	v.SetDefault("data.dir", defaults.Data.Dir)
	v.SetDefault("data.motion_pattern", defaults.Data.MotionPattern)
	v.SetDefault("data.labels_pattern", defaults.Data.LabelsPattern)
	v.SetDefault("data.non_negative", defaults.Data.NonNegative)

	// Windowing defaults
	v.SetDefault("windowing.first_length", defaults.Windowing.FirstLength)
	v.SetDefault("windowing.length", defaults.Windowing.Length)
	v.SetDefault("windowing.overlap", defaults.Windowing.Overlap)
	v.SetDefault("windowing.label_width", defaults.Windowing.LabelWidth)

	// Spectral defaults
	v.SetDefault("spectral.nperseg", defaults.Spectral.SegmentLength)
	v.SetDefault("spectral.noverlap", defaults.Spectral.SegmentOverlap)
	v.SetDefault("spectral.min_segment_length", defaults.Spectral.MinSegmentLength)
	v.SetDefault("spectral.grid_size", defaults.Spectral.GridSize)
	v.SetDefault("spectral.max_freq", defaults.Spectral.MaxFrequency)
	v.SetDefault("spectral.db_floor", defaults.Spectral.DecibelFloor)
	v.SetDefault("spectral.decibel", defaults.Spectral.Decibel)
	v.SetDefault("spectral.precenter", defaults.Spectral.Precenter)
	v.SetDefault("spectral.normalize", defaults.Spectral.Normalize)

	// Label defaults
	v.SetDefault("labels.scheme", defaults.Labels.Scheme)
	v.SetDefault("labels.classes", []int{})

	// Batch defaults
	v.SetDefault("batch.max_concurrency", defaults.Batch.MaxConcurrency)

	// Metrics defaults
	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.log_file", defaults.Metrics.LogFile)
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	features := config.DefaultFeatureConfig()

	return &Config{
		// Application settings defaults
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "json",

		Data: DataConfig{
			Dir:           ".",
			MotionPattern: sleep.DefaultMotionPattern,
			LabelsPattern: sleep.DefaultLabelsPattern,
			NonNegative:   features.NonNegative,
		},

		Windowing: WindowingConfig{
			FirstLength: features.Chunks.FirstLength,
			Length:      features.Chunks.Length,
			Overlap:     features.Chunks.Overlap,
			LabelWidth:  features.Chunks.LabelWidth,
		},

		Spectral: SpectralConfig{
			SegmentLength:    features.Spectral.SegmentLength,
			SegmentOverlap:   features.Spectral.SegmentOverlap,
			MinSegmentLength: features.Spectral.MinSegmentLength,
			GridSize:         features.Spectral.GridSize,
			MaxFrequency:     features.Spectral.MaxFrequency,
			DecibelFloor:     features.Spectral.DecibelFloor,
			Decibel:          features.Spectral.Decibel,
			Precenter:        features.Spectral.Precenter,
			Normalize:        features.Spectral.Normalize,
		},

		Labels: LabelsConfig{
			Scheme:  string(features.LabelScheme),
			Classes: features.Classes,
		},

		Batch: BatchConfig{
			MaxConcurrency: 4,
		},

		Metrics: MetricsConfig{
			Enabled: false,
			LogFile: filepath.Join(os.TempDir(), "sleepspec-metrics.log"),
		},
	}
}
