package configs

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// Recording layout
	Data DataConfig `mapstructure:"data" yaml:"data"`

	// Fixed-interval and label windowing
	Windowing WindowingConfig `mapstructure:"windowing" yaml:"windowing"`

	// STFT and periodogram settings
	Spectral SpectralConfig `mapstructure:"spectral" yaml:"spectral"`

	// Label grouping
	Labels LabelsConfig `mapstructure:"labels" yaml:"labels"`

	// Multi-subject runs
	Batch BatchConfig `mapstructure:"batch" yaml:"batch"`

	// Metric emission
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// DataConfig locates subject recordings on disk
type DataConfig struct {
	Dir           string `mapstructure:"dir" yaml:"dir"`
	MotionPattern string `mapstructure:"motion_pattern" yaml:"motion_pattern"`
	LabelsPattern string `mapstructure:"labels_pattern" yaml:"labels_pattern"`
	NonNegative   bool   `mapstructure:"non_negative" yaml:"non_negative"`
}

// WindowingConfig contains chunking settings, in seconds
type WindowingConfig struct {
	FirstLength float64 `mapstructure:"first_length" yaml:"first_length"`
	Length      float64 `mapstructure:"length" yaml:"length"`
	Overlap     float64 `mapstructure:"overlap" yaml:"overlap"`
	LabelWidth  float64 `mapstructure:"label_width" yaml:"label_width"`
}

// SpectralConfig contains transform settings
type SpectralConfig struct {
	SegmentLength    int     `mapstructure:"nperseg" yaml:"nperseg"`
	SegmentOverlap   int     `mapstructure:"noverlap" yaml:"noverlap"`
	MinSegmentLength int     `mapstructure:"min_segment_length" yaml:"min_segment_length"`
	GridSize         int     `mapstructure:"grid_size" yaml:"grid_size"`
	MaxFrequency     float64 `mapstructure:"max_freq" yaml:"max_freq"`
	DecibelFloor     float64 `mapstructure:"db_floor" yaml:"db_floor"`
	Decibel          bool    `mapstructure:"decibel" yaml:"decibel"`
	Precenter        bool    `mapstructure:"precenter" yaml:"precenter"`
	Normalize        bool    `mapstructure:"normalize" yaml:"normalize"`
}

// LabelsConfig selects the grouping scheme and the classes reported
type LabelsConfig struct {
	Scheme  string `mapstructure:"scheme" yaml:"scheme"`
	Classes []int  `mapstructure:"classes" yaml:"classes"`
}

// BatchConfig contains multi-subject execution settings
type BatchConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency"`
}

// MetricsConfig controls metric emission through the root collector
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom fills unset keys with defaults and decodes v
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *Config) error {
	switch cfg.OutputFormat {
	case "json", "yaml", "csv", "table":
	default:
		return fmt.Errorf("unsupported output format %q", cfg.OutputFormat)
	}

	if cfg.Batch.MaxConcurrency < 1 {
		return fmt.Errorf("batch max concurrency must be at least 1")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.LogFile == "" {
		return fmt.Errorf("metrics log file is required when metrics are enabled")
	}

	features := cfg.FeatureConfig()
	if err := features.Validate(); err != nil {
		return err
	}
	if err := features.ValidateClasses(); err != nil {
		return err
	}

	return nil
}

// FeatureConfig converts the decoded settings into the pipeline configuration
func (c *Config) FeatureConfig() config.FeatureConfig {
	var classes []int
	if len(c.Labels.Classes) > 0 {
		classes = append(classes, c.Labels.Classes...)
	}

	return config.FeatureConfig{
		NonNegative: c.Data.NonNegative,
		Chunks: config.ChunkConfig{
			FirstLength: c.Windowing.FirstLength,
			Length:      c.Windowing.Length,
			Overlap:     c.Windowing.Overlap,
			LabelWidth:  c.Windowing.LabelWidth,
		},
		Spectral: config.SpectralConfig{
			SegmentLength:    c.Spectral.SegmentLength,
			SegmentOverlap:   c.Spectral.SegmentOverlap,
			MinSegmentLength: c.Spectral.MinSegmentLength,
			GridSize:         c.Spectral.GridSize,
			MaxFrequency:     c.Spectral.MaxFrequency,
			DecibelFloor:     c.Spectral.DecibelFloor,
			Decibel:          c.Spectral.Decibel,
			Precenter:        c.Spectral.Precenter,
			Normalize:        c.Spectral.Normalize,
		},
		LabelScheme: config.LabelScheme(c.Labels.Scheme),
		Classes:     classes,
	}
}
