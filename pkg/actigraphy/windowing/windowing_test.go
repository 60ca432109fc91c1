package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformTime(n int, dt float64) []float64 {
	time := make([]float64, n)
	for i := range time {
		time[i] = float64(i) * dt
	}
	return time
}

func TestFixedIntervalWindowsHundredSeconds(t *testing.T) {
	windows := FixedIntervalWindows(0, 100, DefaultChunkPolicy())

	want := []Window{
		{Index: 0, Start: 0, End: 20},
		{Index: 1, Start: 10, End: 40},
		{Index: 2, Start: 30, End: 60},
		{Index: 3, Start: 50, End: 80},
		{Index: 4, Start: 70, End: 100},
	}
	require.Len(t, windows, 5)
	for i := range want {
		assert.InDelta(t, want[i].Start, windows[i].Start, 1e-9, "window %d start", i)
		assert.InDelta(t, want[i].End, windows[i].End, 1e-9, "window %d end", i)
		assert.Equal(t, want[i].Index, windows[i].Index)
	}
}

func TestFixedIntervalWindowsOffsetStart(t *testing.T) {
	windows := FixedIntervalWindows(5, 125, DefaultChunkPolicy())

	// floor(120/20)-1 = 5 windows after the first
	require.Len(t, windows, 6)
	for n := 1; n < len(windows); n++ {
		assert.InDelta(t, 5+20*float64(n)-10, windows[n].Start, 1e-9)
		assert.InDelta(t, 5+20*float64(n+1), windows[n].End, 1e-9)
		assert.InDelta(t, 10, windows[n-1].End-windows[n].Start, 1e-9, "overlap before window %d", n)
	}
}

func TestFixedIntervalWindowsShortSpan(t *testing.T) {
	for _, span := range []float64{0, 5, 20, 39.9} {
		windows := FixedIntervalWindows(0, span, DefaultChunkPolicy())
		assert.Len(t, windows, 1, "span %g", span)
	}
	assert.Len(t, FixedIntervalWindows(0, 40, DefaultChunkPolicy()), 2)
}

func TestSelectBoundarySamplesAppearTwice(t *testing.T) {
	time := uniformTime(101, 1)
	value := uniformTime(101, 1)

	segments := Select(time, value, FixedIntervalWindows(0, 100, DefaultChunkPolicy()))
	require.Len(t, segments, 5)

	assert.Equal(t, 21, segments[0].Len())
	for _, s := range segments[1:] {
		assert.Equal(t, 31, s.Len())
		assert.Equal(t, s.Start, s.Time[0])
		assert.Equal(t, s.End, s.Time[len(s.Time)-1])
	}

	// t=40 closes window 1 and is inside window 2
	assert.Contains(t, segments[1].Time, 40.0)
	assert.Contains(t, segments[2].Time, 40.0)
	// t=20 closes window 0 and is inside window 1
	assert.Contains(t, segments[0].Time, 20.0)
	assert.Contains(t, segments[1].Time, 20.0)
}

func TestSelectUnsortedMatchesSorted(t *testing.T) {
	sortedTime := []float64{0, 1, 2, 3, 4, 5, 6}
	sortedValue := []float64{10, 11, 12, 13, 14, 15, 16}
	unsortedTime := []float64{3, 0, 6, 1, 5, 2, 4}
	unsortedValue := []float64{13, 10, 16, 11, 15, 12, 14}

	windows := []Window{{Start: 1, End: 3}, {Start: 3, End: 10}, {Start: 7, End: 9}}
	a := Select(sortedTime, sortedValue, windows)
	b := Select(unsortedTime, unsortedValue, windows)

	require.Len(t, b, len(a))
	for i := range a {
		assert.ElementsMatch(t, a[i].Time, b[i].Time, "window %d", i)
		assert.ElementsMatch(t, a[i].Value, b[i].Value, "window %d", i)
	}
	assert.Equal(t, 0, a[2].Len())
}

func TestLabelWindows(t *testing.T) {
	windows := LabelWindows([]float64{0, 30, 45}, 30)

	require.Len(t, windows, 3)
	assert.Equal(t, Window{Index: 1, Start: 30, End: 60}, windows[1])
	assert.Equal(t, Window{Index: 2, Start: 45, End: 75}, windows[2])

	time := uniformTime(200, 0.5)
	segments := Select(time, time, windows)
	assert.Equal(t, 61, segments[0].Len())
	assert.Equal(t, 61, segments[2].Len())
	assert.Empty(t, LabelWindows(nil, 30))
}

func TestSpan(t *testing.T) {
	lo, hi, ok := Span([]float64{4, -2, 9, 3})
	require.True(t, ok)
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 9.0, hi)

	_, _, ok = Span(nil)
	assert.False(t, ok)
}
