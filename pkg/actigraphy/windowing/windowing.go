// Package windowing partitions a timestamped signal into closed time
// intervals, either on a fixed overlapping grid or starting at label times.
package windowing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

// Window is a closed time interval [Start, End]
type Window struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether t lies inside the closed interval
func (w Window) Contains(t float64) bool {
	return w.Start <= t && t <= w.End
}

// Segment is the part of a series that falls inside a Window. Time and Value
// alias the source series when it is sorted and must be treated as read-only.
type Segment struct {
	Window
	Time  []float64 `json:"time"`
	Value []float64 `json:"value"`
}

// Len returns the number of samples in the segment
func (s Segment) Len() int {
	return len(s.Value)
}

// ChunkPolicy describes the fixed-interval grid. Window 0 spans FirstLength;
// every following window spans Length and overlaps its predecessor by
// Overlap.
type ChunkPolicy struct {
	FirstLength float64
	Length      float64
	Overlap     float64
}

// PolicyFromConfig builds a ChunkPolicy from the chunk configuration
func PolicyFromConfig(cfg config.ChunkConfig) ChunkPolicy {
	return ChunkPolicy{
		FirstLength: cfg.FirstLength,
		Length:      cfg.Length,
		Overlap:     cfg.Overlap,
	}
}

// DefaultChunkPolicy is the 20s / 30s / 10s overlap grid
func DefaultChunkPolicy() ChunkPolicy {
	return PolicyFromConfig(config.DefaultChunkConfig())
}

// Step is the distance between the ends of consecutive windows
func (p ChunkPolicy) Step() float64 {
	return p.Length - p.Overlap
}

// FixedIntervalWindows lays the chunk grid over [tMin, tMax].
//
// With the default policy window n >= 1 is [tMin+20n-10, tMin+20(n+1)] and
// there are floor((tMax-tMin)/20)-1 of them after window 0. A non-positive
// count yields window 0 alone.
func FixedIntervalWindows(tMin, tMax float64, p ChunkPolicy) []Window {
	windows := []Window{{Index: 0, Start: tMin, End: tMin + p.FirstLength}}

	step := p.Step()
	if step <= 0 {
		return windows
	}

	count := int(math.Floor((tMax-tMin)/step)) - 1
	for n := 1; n <= count; n++ {
		end := tMin + p.FirstLength + float64(n)*step
		windows = append(windows, Window{
			Index: n,
			Start: end - p.Length,
			End:   end,
		})
	}
	return windows
}

// LabelWindows returns [t, t+width] for every start time
func LabelWindows(starts []float64, width float64) []Window {
	windows := make([]Window, len(starts))
	for i, t := range starts {
		windows[i] = Window{Index: i, Start: t, End: t + width}
	}
	return windows
}

// Select cuts one segment per window out of (time, value). Both interval
// ends are inclusive, so a sample sitting on a shared boundary lands in
// both neighbouring segments. Segments are returned whatever their length.
func Select(time, value []float64, windows []Window) []Segment {
	sorted := sort.Float64sAreSorted(time)

	segments := make([]Segment, len(windows))
	for i, w := range windows {
		segments[i] = Segment{Window: w}
		if sorted {
			lo := sort.SearchFloat64s(time, w.Start)
			hi := sort.Search(len(time), func(j int) bool { return time[j] > w.End })
			if lo < hi {
				segments[i].Time = time[lo:hi:hi]
				segments[i].Value = value[lo:hi:hi]
			}
			continue
		}

		for j, t := range time {
			if w.Contains(t) {
				segments[i].Time = append(segments[i].Time, t)
				segments[i].Value = append(segments[i].Value, value[j])
			}
		}
	}
	return segments
}

// Span returns the minimum and maximum of time. ok is false for empty input.
func Span(time []float64) (tMin, tMax float64, ok bool) {
	if len(time) == 0 {
		return 0, 0, false
	}
	return floats.Min(time), floats.Max(time), true
}
