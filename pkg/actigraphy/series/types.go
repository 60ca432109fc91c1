package series

// Sample is one accelerometer reading
type Sample struct {
	Time float64 `json:"time"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// Acceleration is an ordered 3-axis recording for one subject
type Acceleration struct {
	Subject string   `json:"subject,omitempty"`
	Samples []Sample `json:"samples"`
}

// Label is an expert-scored stage starting at Time
type Label struct {
	Time  float64 `json:"time"`
	Stage int     `json:"stage"`
}

// Labels is an ordered label sequence for one subject
type Labels struct {
	Subject string  `json:"subject,omitempty"`
	Items   []Label `json:"items"`
}

// DerivativeSeries holds d|a|/dt. It is one sample shorter than its source;
// Time[i] is the timestamp of source sample i.
type DerivativeSeries struct {
	Time  []float64 `json:"time"`
	Value []float64 `json:"value"`

	// Stat is a diagnostic of the derivative primitive (mean sampling
	// interval, seconds). Nothing downstream consumes it.
	Stat float64 `json:"stat"`
}

// Len returns the number of derivative samples
func (d *DerivativeSeries) Len() int {
	return len(d.Time)
}

// Preprocessed pairs the (filtered) raw recording with its magnitude and
// derivative series.
type Preprocessed struct {
	Acceleration Acceleration      `json:"acceleration"`
	Time         []float64         `json:"time"`
	Magnitude    []float64         `json:"magnitude"`
	Derivative   *DerivativeSeries `json:"derivative"`
}

// Times returns the timestamps of an acceleration recording
func (a *Acceleration) Times() []float64 {
	times := make([]float64, len(a.Samples))
	for i, s := range a.Samples {
		times[i] = s.Time
	}
	return times
}

// NonNegative returns a copy holding only samples with Time >= 0.
func (a *Acceleration) NonNegative() Acceleration {
	out := Acceleration{Subject: a.Subject, Samples: make([]Sample, 0, len(a.Samples))}
	for _, s := range a.Samples {
		if s.Time >= 0 {
			out.Samples = append(out.Samples, s)
		}
	}
	return out
}

// TimesWhere returns the timestamps of labels whose stage satisfies keep.
func (l *Labels) TimesWhere(keep func(stage int) bool) []float64 {
	var times []float64
	for _, item := range l.Items {
		if keep(item.Stage) {
			times = append(times, item.Time)
		}
	}
	return times
}
