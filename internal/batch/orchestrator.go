package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sleep-spectra/internal/sleep"
)

// SubjectProcessor produces the grouped profiles of one subject
type SubjectProcessor interface {
	AverageTransforms(subject string) (*sleep.GroupedProfiles, error)
}

// SubjectResult is the outcome of one subject in a batch
type SubjectResult struct {
	Subject   string                 `json:"subject" yaml:"subject"`
	Profiles  *sleep.GroupedProfiles `json:"profiles,omitempty" yaml:"profiles,omitempty"`
	Summaries []sleep.ClassSummary   `json:"summaries,omitempty" yaml:"summaries,omitempty"`
	Duration  time.Duration          `json:"duration" yaml:"duration"`
	Error     error                  `json:"-" yaml:"-"`
}

// Summary aggregates a batch run
type Summary struct {
	Results       []*SubjectResult         `json:"results" yaml:"results"`
	Successful    int                      `json:"successful" yaml:"successful"`
	Failed        int                      `json:"failed" yaml:"failed"`
	ClassTotals   map[int]sleep.ClassCount `json:"class_totals" yaml:"class_totals"`
	StartTime     time.Time                `json:"start_time" yaml:"start_time"`
	EndTime       time.Time                `json:"end_time" yaml:"end_time"`
	TotalDuration time.Duration            `json:"total_duration" yaml:"total_duration"`
}

// Orchestrator runs the feature pipeline over many subjects with bounded
// parallelism. Subjects are independent; one failing does not stop the rest.
type Orchestrator struct {
	processor      SubjectProcessor
	summaries      *sleep.SummaryCalculator
	maxConcurrency int
	logger         logging.Logger
}

// NewOrchestrator creates a new batch orchestrator
func NewOrchestrator(processor SubjectProcessor, maxConcurrency int, logger logging.Logger) (*Orchestrator, error) {
	if processor == nil {
		return nil, fmt.Errorf("subject processor is required")
	}
	if maxConcurrency < 1 {
		return nil, fmt.Errorf("max concurrency must be at least 1, got %d", maxConcurrency)
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Orchestrator{
		processor:      processor,
		summaries:      sleep.NewSummaryCalculator(logger),
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}, nil
}

// Run processes every subject and returns results in input order. The
// returned error is non-nil only when ctx is cancelled; per-subject
// failures are reported in SubjectResult.Error.
func (o *Orchestrator) Run(ctx context.Context, subjects []string) (*Summary, error) {
	if len(subjects) == 0 {
		return nil, fmt.Errorf("no subjects to process")
	}

	startTime := time.Now()

	o.logger.Debug("Starting batch", logging.Fields{
		"subjects":        len(subjects),
		"max_concurrency": o.maxConcurrency,
	})

	results := make([]*SubjectResult, len(subjects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrency)

	for i, subject := range subjects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = &SubjectResult{Subject: subject, Error: err}
				return err
			}
			results[i] = o.processSubject(subject)
			return nil
		})
	}

	runErr := g.Wait()

	endTime := time.Now()
	summary := &Summary{
		Results:       results,
		ClassTotals:   make(map[int]sleep.ClassCount),
		StartTime:     startTime,
		EndTime:       endTime,
		TotalDuration: endTime.Sub(startTime),
	}
	o.calculateSummary(summary)

	o.logger.Debug("Batch completed", logging.Fields{
		"total_duration_s": summary.TotalDuration.Seconds(),
		"successful":       summary.Successful,
		"failed":           summary.Failed,
	})

	if runErr != nil {
		return summary, fmt.Errorf("batch interrupted: %w", runErr)
	}
	return summary, nil
}

func (o *Orchestrator) processSubject(subject string) *SubjectResult {
	start := time.Now()
	result := &SubjectResult{Subject: subject}

	grouped, err := o.processor.AverageTransforms(subject)
	result.Duration = time.Since(start)
	if err != nil {
		o.logger.Error(err, fmt.Sprintf("Subject %s failed", subject))
		result.Error = err
		return result
	}

	result.Profiles = grouped
	result.Summaries = o.summaries.Summarize(grouped)
	return result
}

// calculateSummary tallies outcomes and per-class segment counts
func (o *Orchestrator) calculateSummary(summary *Summary) {
	for _, result := range summary.Results {
		if result == nil {
			continue
		}
		if result.Error != nil {
			summary.Failed++
			continue
		}
		summary.Successful++
		for class, count := range result.Profiles.Counts {
			total := summary.ClassTotals[class]
			total.Segments += count.Segments
			total.Dropped += count.Dropped
			summary.ClassTotals[class] = total
		}
	}
}
