package config

import (
	"fmt"
	"math"
)

// Pipeline defaults. Windowing and spectral reduction read these through
// FeatureConfig so each policy can be tested with its own values.
const (
	DefaultFirstChunkLength = 20.0 // seconds
	DefaultChunkLength      = 30.0 // seconds
	DefaultChunkOverlap     = 10.0 // seconds
	DefaultLabelWindow      = 30.0 // seconds

	DefaultSegmentLength    = 128 // STFT nperseg
	DefaultSegmentOverlap   = 64  // STFT noverlap, nperseg/2
	DefaultMinSegmentLength = 128

	DefaultGridSize     = 500
	DefaultGridOffset   = 1e-4
	DefaultDecibelFloor = 1e-10
)

// DefaultMaxFrequency is the upper bound (angular) of the periodogram grid.
var DefaultMaxFrequency = 4 * math.Pi / 0.5

// ChunkConfig controls the fixed-interval and label-bounded windowing.
type ChunkConfig struct {
	FirstLength float64 `json:"first_length" yaml:"first_length"`
	Length      float64 `json:"length" yaml:"length"`
	Overlap     float64 `json:"overlap" yaml:"overlap"`
	LabelWidth  float64 `json:"label_width" yaml:"label_width"`
}

// SpectralConfig controls the STFT and periodogram paths.
type SpectralConfig struct {
	SegmentLength    int     `json:"nperseg" yaml:"nperseg"`
	SegmentOverlap   int     `json:"noverlap" yaml:"noverlap"`
	MinSegmentLength int     `json:"min_segment_length" yaml:"min_segment_length"`
	GridSize         int     `json:"grid_size" yaml:"grid_size"`
	MaxFrequency     float64 `json:"max_freq" yaml:"max_freq"`
	DecibelFloor     float64 `json:"db_floor" yaml:"db_floor"`
	Decibel          bool    `json:"decibel" yaml:"decibel"`
	Precenter        bool    `json:"precenter" yaml:"precenter"`
	Normalize        bool    `json:"normalize" yaml:"normalize"`
}

// FeatureConfig bundles every tunable of the extraction pipeline. Classes
// lists the classes reported, in order; empty selects every class of
// LabelScheme.
type FeatureConfig struct {
	NonNegative bool           `json:"non_negative" yaml:"non_negative"`
	Chunks      ChunkConfig    `json:"chunks" yaml:"chunks"`
	Spectral    SpectralConfig `json:"spectral" yaml:"spectral"`
	LabelScheme LabelScheme    `json:"label_scheme" yaml:"label_scheme"`
	Classes     []int          `json:"classes,omitempty" yaml:"classes,omitempty"`
}

// LabelScheme selects how scored stages collapse into classes.
type LabelScheme string

const (
	LabelSchemeTwoClass LabelScheme = "two_class"
	LabelSchemeStages   LabelScheme = "stages"
)

// MaxStage is the highest scored stage (REM)
const MaxStage = 5

// SchemeClasses returns every class a scheme can produce
func SchemeClasses(scheme LabelScheme) []int {
	switch scheme {
	case LabelSchemeStages:
		classes := make([]int, MaxStage+1)
		for i := range classes {
			classes[i] = i
		}
		return classes
	default:
		return []int{0, 1}
	}
}

// ResolvedClasses returns Classes, or every class of the scheme when
// Classes is empty.
func (c *FeatureConfig) ResolvedClasses() []int {
	if len(c.Classes) == 0 {
		return SchemeClasses(c.LabelScheme)
	}
	return append([]int(nil), c.Classes...)
}

// ValidateClasses checks that every requested class can be produced by the
// label scheme. It does not apply to engines run with a custom grouper.
func (c *FeatureConfig) ValidateClasses() error {
	valid := make(map[int]bool)
	for _, class := range SchemeClasses(c.LabelScheme) {
		valid[class] = true
	}
	for _, class := range c.Classes {
		if !valid[class] {
			return fmt.Errorf("class %d is not produced by label scheme %q", class, c.LabelScheme)
		}
	}
	return nil
}

// DefaultChunkConfig returns the 20s/30s/10s chunking used for periodograms
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		FirstLength: DefaultFirstChunkLength,
		Length:      DefaultChunkLength,
		Overlap:     DefaultChunkOverlap,
		LabelWidth:  DefaultLabelWindow,
	}
}

// DefaultSpectralConfig returns the scipy-compatible STFT settings and the
// 500-point periodogram grid.
func DefaultSpectralConfig() SpectralConfig {
	return SpectralConfig{
		SegmentLength:    DefaultSegmentLength,
		SegmentOverlap:   DefaultSegmentOverlap,
		MinSegmentLength: DefaultMinSegmentLength,
		GridSize:         DefaultGridSize,
		MaxFrequency:     DefaultMaxFrequency,
		DecibelFloor:     DefaultDecibelFloor,
		Decibel:          true,
	}
}

// DefaultFeatureConfig returns the full default pipeline configuration
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		NonNegative: true,
		Chunks:      DefaultChunkConfig(),
		Spectral:    DefaultSpectralConfig(),
		LabelScheme: LabelSchemeTwoClass,
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *FeatureConfig) Validate() error {
	if c.Chunks.FirstLength <= 0 || c.Chunks.Length <= 0 {
		return fmt.Errorf("chunk lengths must be positive")
	}
	if c.Chunks.Overlap < 0 || c.Chunks.Overlap >= c.Chunks.Length {
		return fmt.Errorf("chunk overlap must be in [0, length)")
	}
	if c.Chunks.LabelWidth <= 0 {
		return fmt.Errorf("label window width must be positive")
	}
	if c.Spectral.SegmentLength < 2 {
		return fmt.Errorf("nperseg must be at least 2")
	}
	if c.Spectral.SegmentOverlap < 0 || c.Spectral.SegmentOverlap >= c.Spectral.SegmentLength {
		return fmt.Errorf("noverlap must be in [0, nperseg)")
	}
	if c.Spectral.MinSegmentLength < c.Spectral.SegmentLength {
		return fmt.Errorf("minimum segment length %d is below nperseg %d",
			c.Spectral.MinSegmentLength, c.Spectral.SegmentLength)
	}
	if c.Spectral.GridSize < 1 {
		return fmt.Errorf("frequency grid size must be positive")
	}
	if c.Spectral.MaxFrequency <= 0 {
		return fmt.Errorf("max frequency must be positive")
	}
	if c.Spectral.DecibelFloor <= 0 {
		return fmt.Errorf("decibel floor must be positive")
	}
	switch c.LabelScheme {
	case LabelSchemeTwoClass, LabelSchemeStages:
	default:
		return fmt.Errorf("unknown label scheme %q", c.LabelScheme)
	}
	seen := make(map[int]bool, len(c.Classes))
	for _, class := range c.Classes {
		if seen[class] {
			return fmt.Errorf("class %d requested twice", class)
		}
		seen[class] = true
	}
	return nil
}
