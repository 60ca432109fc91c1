package series

import (
	"errors"
	"fmt"
)

// ErrDataFormat is matched by every DataFormatError through errors.Is
var ErrDataFormat = errors.New("data format error")

func (e *DataFormatError) Error() string {
	msg := e.Message
	if e.Source != "" {
		if e.Line > 0 {
			msg = fmt.Sprintf("%s:%d: %s", e.Source, e.Line, msg)
		} else {
			msg = e.Source + ": " + msg
		}
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// DataFormatError represents malformed or too-short input series
type DataFormatError struct {
	Source  string `json:"source,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *DataFormatError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrDataFormat) match any DataFormatError.
func (e *DataFormatError) Is(target error) bool {
	return target == ErrDataFormat
}

// NewDataFormatError creates a new data format error
func NewDataFormatError(source string, line int, message string, cause error) *DataFormatError {
	return &DataFormatError{
		Source:  source,
		Line:    line,
		Message: message,
		Cause:   cause,
	}
}
