package analyzers

import (
	"math"
	"testing"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

// SpectralTestSuite covers STFT framing and the magnitude reductions
type SpectralTestSuite struct {
	suite.Suite
	analyzer *SpectralAnalyzer
	logger   logging.Logger
}

func (s *SpectralTestSuite) SetupSuite() {
	s.logger = logging.NewDefaultLogger()
	s.analyzer = NewSpectralAnalyzer(config.DefaultSpectralConfig(), s.logger)
}

func cosine(n int, cyclesPerSample, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Cos(2*math.Pi*cyclesPerSample*float64(i))
	}
	return out
}

func (s *SpectralTestSuite) TestSTFTShape() {
	tests := []struct {
		length int
		frames int
	}{
		{128, 3},
		{129, 4},
		{192, 4},
		{300, 6},
		{1024, 17},
	}

	for _, tt := range tests {
		spec, err := s.analyzer.STFT(make([]float64, tt.length))
		s.Require().NoError(err)
		s.Equal(65, spec.FreqBins, "length %d", tt.length)
		s.Equal(tt.frames, spec.TimeFrames, "length %d", tt.length)
		s.Len(spec.Complex, 65)
		s.Len(spec.Complex[0], tt.frames)
		s.Len(spec.Times, tt.frames)
		s.Equal(64.0, spec.Times[1]-spec.Times[0])
	}
}

func (s *SpectralTestSuite) TestSTFTFrequencyAxis() {
	spec, err := s.analyzer.STFT(make([]float64, 256))
	s.Require().NoError(err)

	s.Equal(0.0, spec.Frequencies[0])
	s.InDelta(0.5, spec.Frequencies[64], 1e-12)
	s.InDelta(1.0/128, spec.Frequencies[1], 1e-12)
	s.Equal(s.analyzer.Frequencies(), spec.Frequencies)
}

func (s *SpectralTestSuite) TestSTFTConstantSignal() {
	spec, err := s.analyzer.STFT(cosine(1024, 0, 1))
	s.Require().NoError(err)

	mag := Magnitude(spec)
	mid := spec.TimeFrames / 2
	s.InDelta(1.0, mag[0][mid], 1e-9)
	s.InDelta(0.5, mag[1][mid], 1e-9)
	s.InDelta(0.0, mag[10][mid], 1e-9)
}

func (s *SpectralTestSuite) TestSTFTSinusoidPeak() {
	spec, err := s.analyzer.STFT(cosine(2048, 8.0/128, 2))
	s.Require().NoError(err)

	mag := Magnitude(spec)
	mid := spec.TimeFrames / 2
	column := make([]float64, spec.FreqBins)
	for f := range column {
		column[f] = mag[f][mid]
	}
	s.Equal(8, floats.MaxIdx(column))
	s.InDelta(1.0, column[8], 1e-9)
}

func (s *SpectralTestSuite) TestSTFTShortSignal() {
	_, err := s.analyzer.STFT(make([]float64, 127))
	s.Require().Error(err)
	s.ErrorIs(err, ErrInsufficientSegmentLength)

	var lengthErr *InsufficientSegmentLengthError
	s.Require().ErrorAs(err, &lengthErr)
	s.Equal(127, lengthErr.Length)
	s.Equal(128, lengthErr.Minimum)
}

func (s *SpectralTestSuite) TestReduceMeanMatchesRowMeans() {
	signal := cosine(900, 0.1, 1)
	for i := range signal {
		signal[i] += 0.01 * float64(i%7)
	}

	full, err := s.analyzer.Reduce(signal, ReduceOptions{Decibel: true})
	s.Require().NoError(err)
	s.Nil(full.Profile)
	s.Len(full.Matrix, 65)

	avg, err := s.analyzer.Reduce(signal, ReduceOptions{Decibel: true, Mean: true})
	s.Require().NoError(err)
	s.Nil(avg.Matrix)
	s.Require().Len(avg.Profile, 65)
	s.Equal(full.Frequencies, avg.Frequencies)

	for f, row := range full.Matrix {
		s.InDelta(floats.Sum(row)/float64(len(row)), avg.Profile[f], 1e-9, "row %d", f)
	}
}

func TestSpectralTestSuite(t *testing.T) {
	suite.Run(t, new(SpectralTestSuite))
}

func TestTimeMean(t *testing.T) {
	mat := [][]float64{
		{1, 2, 3},
		{4, 4, 4},
		{-1, 1, 0},
		{},
	}

	profile := TimeMean(mat)
	require.Len(t, profile, 4)
	assert.InDeltaSlice(t, []float64{2, 4, 0}, profile[:3], 1e-12)
	assert.True(t, math.IsNaN(profile[3]))
}

func TestDecibelMonotonicAndFloored(t *testing.T) {
	db := Decibel([][]float64{{0, 1e-12, 1, 10, 100}}, 1e-10)[0]

	assert.InDeltaSlice(t, []float64{-100, -100, 0, 10, 20}, db, 1e-9)
	for i := 2; i < len(db); i++ {
		assert.Greater(t, db[i], db[i-1])
	}
	for _, v := range db {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	}
}

func TestWindowGeneratorPeriodicHann(t *testing.T) {
	wg := NewWindowGenerator()

	w, err := wg.Generate(WindowHann, 128)
	require.NoError(t, err)
	require.Len(t, w, 128)

	assert.InDelta(t, 0, w[0], 1e-12)
	assert.InDelta(t, 1, w[64], 1e-12)
	assert.InDelta(t, w[1], w[127], 1e-12)
	assert.InDelta(t, 64, floats.Sum(w), 1e-9)

	again, err := wg.Generate(WindowHann, 128)
	require.NoError(t, err)
	assert.Same(t, &w[0], &again[0])

	_, err = wg.Generate(WindowHann, 0)
	assert.Error(t, err)
}
