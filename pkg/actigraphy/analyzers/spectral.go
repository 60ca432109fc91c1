package analyzers

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

// SpectralAnalyzer computes short-time Fourier transforms of derivative
// segments and reduces them to frequency profiles.
type SpectralAnalyzer struct {
	windowGenerator *WindowGenerator
	windowType      WindowType
	segmentLength   int
	segmentOverlap  int
	decibelFloor    float64
	logger          logging.Logger
}

// SpectrogramResult holds the result of STFT analysis
type SpectrogramResult struct {
	Complex     [][]complex128 `json:"-"`           // Frequency x Time
	Frequencies []float64      `json:"frequencies"` // cycles per sample
	Times       []float64      `json:"times"`       // frame centres, samples
	FreqBins    int            `json:"freq_bins"`
	TimeFrames  int            `json:"time_frames"`
	WindowSize  int            `json:"window_size"`
	HopSize     int            `json:"hop_size"`
}

// ReduceOptions selects the post-processing applied to |STFT|
type ReduceOptions struct {
	Decibel bool `json:"decibel"`
	Mean    bool `json:"mean"`
}

// ReducedSpectrum is |STFT| after the requested reductions. Matrix is set
// when Mean is false, Profile when it is true.
type ReducedSpectrum struct {
	Frequencies []float64   `json:"frequencies"`
	Times       []float64   `json:"times,omitempty"`
	Matrix      [][]float64 `json:"matrix,omitempty"`
	Profile     []float64   `json:"profile,omitempty"`
	Decibel     bool        `json:"decibel"`
}

// NewSpectralAnalyzer creates a new spectral analyzer
func NewSpectralAnalyzer(cfg config.SpectralConfig, logger logging.Logger) *SpectralAnalyzer {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SpectralAnalyzer{
		windowGenerator: NewWindowGenerator(),
		windowType:      WindowHann,
		segmentLength:   cfg.SegmentLength,
		segmentOverlap:  cfg.SegmentOverlap,
		decibelFloor:    cfg.DecibelFloor,
		logger:          logger,
	}
}

// SegmentLength returns the STFT analysis window length (nperseg)
func (sa *SpectralAnalyzer) SegmentLength() int {
	return sa.segmentLength
}

// Frequencies returns the one-sided frequency axis shared by every STFT
// this analyzer produces.
func (sa *SpectralAnalyzer) Frequencies() []float64 {
	bins := sa.segmentLength/2 + 1
	freqs := make([]float64, bins)
	for k := range bins {
		freqs[k] = float64(k) / float64(sa.segmentLength)
	}
	return freqs
}

// STFT computes a one-sided short-time Fourier transform with unit sample
// rate. The signal is extended by nperseg/2 zeros on both sides and zero
// padded to a whole number of hops; every frame is windowed, transformed
// and scaled by 1/sum(window).
func (sa *SpectralAnalyzer) STFT(signal []float64) (*SpectrogramResult, error) {
	nperseg := sa.segmentLength
	if len(signal) < nperseg {
		return nil, &InsufficientSegmentLengthError{Length: len(signal), Minimum: nperseg}
	}

	win, err := sa.windowGenerator.Generate(sa.windowType, nperseg)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis window: %w", err)
	}

	hop := nperseg - sa.segmentOverlap
	half := nperseg / 2

	extended := len(signal) + 2*half
	pad := positiveMod(-(extended-nperseg), hop) % nperseg
	padded := make([]float64, extended+pad)
	copy(padded[half:], signal)

	frames := (len(padded) - sa.segmentOverlap) / hop
	bins := nperseg/2 + 1
	scale := 1 / floats.Sum(win)

	spectrum := make([][]complex128, bins)
	for k := range spectrum {
		spectrum[k] = make([]complex128, frames)
	}

	frame := make([]float64, nperseg)
	for t := range frames {
		floats.MulTo(frame, padded[t*hop:t*hop+nperseg], win)
		coeffs := fft.FFTReal(frame)
		for k := range bins {
			spectrum[k][t] = coeffs[k] * complex(scale, 0)
		}
	}

	times := make([]float64, frames)
	for t := range times {
		times[t] = float64(t * hop)
	}

	sa.logger.Debug("Computed STFT", logging.Fields{
		"signal_length": len(signal),
		"freq_bins":     bins,
		"time_frames":   frames,
	})

	return &SpectrogramResult{
		Complex:     spectrum,
		Frequencies: sa.Frequencies(),
		Times:       times,
		FreqBins:    bins,
		TimeFrames:  frames,
		WindowSize:  nperseg,
		HopSize:     hop,
	}, nil
}

// Magnitude returns |X| for every bin of the spectrogram
func Magnitude(spec *SpectrogramResult) [][]float64 {
	mag := make([][]float64, len(spec.Complex))
	for f, row := range spec.Complex {
		mag[f] = make([]float64, len(row))
		for t, c := range row {
			mag[f][t] = cmplx.Abs(c)
		}
	}
	return mag
}

// Decibel converts a magnitude matrix to 10*log10(x). Values below floor
// are clipped to floor first, so zero magnitude maps to 10*log10(floor)
// rather than -Inf.
func Decibel(mag [][]float64, floor float64) [][]float64 {
	out := make([][]float64, len(mag))
	for f, row := range mag {
		out[f] = make([]float64, len(row))
		for t, v := range row {
			out[f][t] = 10 * math.Log10(math.Max(v, floor))
		}
	}
	return out
}

// TimeMean averages every frequency row across the time axis
func TimeMean(mat [][]float64) []float64 {
	profile := make([]float64, len(mat))
	for f, row := range mat {
		if len(row) == 0 {
			profile[f] = math.NaN()
			continue
		}
		profile[f] = stat.Mean(row, nil)
	}
	return profile
}

// Reduce runs STFT -> |.| -> optional dB -> optional time mean
func (sa *SpectralAnalyzer) Reduce(signal []float64, opts ReduceOptions) (*ReducedSpectrum, error) {
	spec, err := sa.STFT(signal)
	if err != nil {
		return nil, err
	}

	mat := Magnitude(spec)
	if opts.Decibel {
		mat = Decibel(mat, sa.decibelFloor)
	}

	result := &ReducedSpectrum{
		Frequencies: spec.Frequencies,
		Decibel:     opts.Decibel,
	}
	if opts.Mean {
		result.Profile = TimeMean(mat)
	} else {
		result.Times = spec.Times
		result.Matrix = mat
	}
	return result, nil
}

func positiveMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
