package analyzers

import (
	"fmt"
	"sync"

	"github.com/mjibson/go-dsp/window"
)

// WindowType represents different window functions
type WindowType int

const (
	WindowHann WindowType = iota
	WindowHamming
	WindowRectangular
)

// String returns the scipy name of the window
func (w WindowType) String() string {
	switch w {
	case WindowHann:
		return "hann"
	case WindowHamming:
		return "hamming"
	case WindowRectangular:
		return "boxcar"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

// WindowGenerator builds and caches periodic (DFT-even) analysis windows
type WindowGenerator struct {
	mu    sync.Mutex
	cache map[windowKey][]float64
}

type windowKey struct {
	kind WindowType
	size int
}

// NewWindowGenerator creates a new window generator
func NewWindowGenerator() *WindowGenerator {
	return &WindowGenerator{cache: make(map[windowKey][]float64)}
}

// Generate returns a periodic window of the given size. go-dsp produces
// symmetric windows, so a window of size+1 is truncated by one sample.
// The returned slice is shared and must not be modified.
func (wg *WindowGenerator) Generate(kind WindowType, size int) ([]float64, error) {
	if size < 1 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	wg.mu.Lock()
	defer wg.mu.Unlock()

	key := windowKey{kind: kind, size: size}
	if w, ok := wg.cache[key]; ok {
		return w, nil
	}

	var w []float64
	switch kind {
	case WindowHann:
		w = window.Hann(size + 1)[:size]
	case WindowHamming:
		w = window.Hamming(size + 1)[:size]
	case WindowRectangular:
		w = window.Rectangular(size)
	default:
		return nil, fmt.Errorf("unsupported window type %s", kind)
	}

	wg.cache[key] = w
	return w, nil
}
