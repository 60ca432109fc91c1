package sleep

import (
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/windowing"
)

// ClassCount records how many label windows a class produced and how many
// of them were too short to transform.
type ClassCount struct {
	Segments int `json:"segments" yaml:"segments"`
	Dropped  int `json:"dropped" yaml:"dropped"`
}

// Valid returns the number of segments that reached the transform
func (c ClassCount) Valid() int {
	return c.Segments - c.Dropped
}

// GroupedProfiles maps each requested class to its time-averaged spectral
// profiles, in label order. Every profile shares Frequencies.
type GroupedProfiles struct {
	Subject     string              `json:"subject,omitempty" yaml:"subject,omitempty"`
	Classes     []int               `json:"classes" yaml:"classes"`
	ClassNames  map[int]string      `json:"class_names" yaml:"class_names"`
	Frequencies []float64           `json:"frequencies" yaml:"frequencies"`
	Profiles    map[int][][]float64 `json:"profiles" yaml:"profiles"`
	Counts      map[int]ClassCount  `json:"counts" yaml:"counts"`
	Decibel     bool                `json:"decibel" yaml:"decibel"`
}

// PeriodogramChunk is the Lomb-Scargle estimate of one fixed-interval chunk
type PeriodogramChunk struct {
	Window  windowing.Window `json:"window" yaml:"window"`
	Samples int              `json:"samples" yaml:"samples"`
	Power   []float64        `json:"power" yaml:"power"`
}

// ChunkedPeriodogram holds one periodogram per chunk on a shared grid
type ChunkedPeriodogram struct {
	Frequencies []float64          `json:"frequencies" yaml:"frequencies"`
	Chunks      []PeriodogramChunk `json:"chunks" yaml:"chunks"`
}

// TransformRange is the explicit time range of a single transform request
type TransformRange struct {
	Start float64 `json:"start" yaml:"start"`
	Stop  float64 `json:"stop" yaml:"stop"`
}

// TransformOptions controls a single-range transform
type TransformOptions struct {
	Decibel bool `json:"decibel" yaml:"decibel"`
	Mean    bool `json:"mean" yaml:"mean"`
}

// SeriesSummary describes a preprocessed recording
type SeriesSummary struct {
	Subject          string  `json:"subject" yaml:"subject"`
	Samples          int     `json:"samples" yaml:"samples"`
	DerivativePoints int     `json:"derivative_points" yaml:"derivative_points"`
	Start            float64 `json:"start" yaml:"start"`
	End              float64 `json:"end" yaml:"end"`
	MeanInterval     float64 `json:"mean_interval" yaml:"mean_interval"`
	MagnitudeMean    float64 `json:"magnitude_mean" yaml:"magnitude_mean"`
	MagnitudeStdDev  float64 `json:"magnitude_std_dev" yaml:"magnitude_std_dev"`
}
