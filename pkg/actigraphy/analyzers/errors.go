package analyzers

import (
	"errors"
	"fmt"
)

// ErrInsufficientSegmentLength is matched by InsufficientSegmentLengthError
var ErrInsufficientSegmentLength = errors.New("insufficient segment length")

// InsufficientSegmentLengthError reports a segment shorter than the
// transform's analysis window.
type InsufficientSegmentLengthError struct {
	Length  int `json:"length"`
	Minimum int `json:"minimum"`
}

func (e *InsufficientSegmentLengthError) Error() string {
	return fmt.Sprintf("segment has %d samples, transform needs at least %d", e.Length, e.Minimum)
}

func (e *InsufficientSegmentLengthError) Is(target error) bool {
	return target == ErrInsufficientSegmentLength
}
