package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/latency-benchmark-common/output"
	"github.com/tunein/go-logging/v7/pkg/logger"
	"github.com/tunein/go-logging/v7/pkg/logger/logtypes"
	"github.com/tunein/go-logging/v7/pkg/rootcollector"
	"github.com/tunein/go-logging/v7/pkg/rootlogger"

	"github.com/RyanBlaney/sleep-spectra/configs"
	"github.com/RyanBlaney/sleep-spectra/internal/batch"
	"github.com/RyanBlaney/sleep-spectra/internal/sleep"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

// Periodogram input series
const (
	SourceDerivative = "derivative"
	SourceMagnitude  = "magnitude"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ProfileFile      string // Extraction profile file (optional)
	OutputFile       string
	OutputFormat     string
	MaxConcurrent    int
	Verbose          bool
	DetailedAnalysis bool

	// Out receives formatted results when OutputFile is empty. Defaults to
	// os.Stdout.
	Out io.Writer

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// FeatureApp handles the feature extraction application lifecycle
type FeatureApp struct {
	ctx      *Context
	config   *configs.Config
	features config.FeatureConfig
	engine   *sleep.FeatureEngine
	logger   logging.Logger

	// emitMetric sends one metric. Defaults to rootcollector.Metric.
	emitMetric func(name string, value int64, tags []string)
}

// PeriodogramRequest selects the series and grid bound of a periodogram run
type PeriodogramRequest struct {
	Source       string
	MaxFrequency float64 // 0 uses the configured bound
}

// NewFeatureApp creates a new feature extraction application
func NewFeatureApp(ctx *Context) (*FeatureApp, error) {
	// Set up logging
	logger := setupLogging(ctx)
	ctx.Logger = logger

	if ctx.Out == nil {
		ctx.Out = os.Stdout
	}

	// Load configuration
	cfg, features, err := loadAndMergeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = cfg

	engine, err := sleep.NewFeatureEngine(&sleep.EngineConfig{
		DataDir:       cfg.Data.Dir,
		MotionPattern: cfg.Data.MotionPattern,
		LabelsPattern: cfg.Data.LabelsPattern,
		Features:      features,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create feature engine: %w", err)
	}

	if cfg.Metrics.Enabled {
		configureMetrics(cfg.Metrics.LogFile)
	}

	logger.Debug("Feature application initialized", logging.Fields{
		"profile_file":  ctx.ProfileFile,
		"data_dir":      cfg.Data.Dir,
		"output_format": cfg.OutputFormat,
		"label_scheme":  string(features.LabelScheme),
		"metrics":       cfg.Metrics.Enabled,
	})

	return &FeatureApp{
		ctx:        ctx,
		config:     cfg,
		features:   features,
		engine:     engine,
		logger:     logger,
		emitMetric: emitRootMetric,
	}, nil
}

// Features returns the effective pipeline configuration
func (app *FeatureApp) Features() config.FeatureConfig {
	return app.features
}

// RunSeries loads a subject and outputs a summary of its series
func (app *FeatureApp) RunSeries(subject string) error {
	pre, err := app.engine.LoadSubject(subject)
	if err != nil {
		return err
	}

	return app.outputResults(map[string]any{
		"series":    app.engine.Summarize(pre),
		"timestamp": time.Now(),
	})
}

// RunPeriodogram computes the chunked Lomb-Scargle periodograms of a
// subject's derivative or magnitude series.
func (app *FeatureApp) RunPeriodogram(subject string, req PeriodogramRequest) error {
	pre, err := app.engine.LoadSubject(subject)
	if err != nil {
		return err
	}

	var t, y []float64
	switch req.Source {
	case "", SourceDerivative:
		t, y = pre.Derivative.Time, pre.Derivative.Value
	case SourceMagnitude:
		t, y = pre.Time, pre.Magnitude
	default:
		return fmt.Errorf("unknown periodogram source %q", req.Source)
	}

	maxFreq := req.MaxFrequency
	if maxFreq <= 0 {
		maxFreq = app.features.Spectral.MaxFrequency
	}

	result, err := app.engine.PeriodogramChunksWithMax(t, y, maxFreq)
	if err != nil {
		return fmt.Errorf("periodogram failed for subject %s: %w", subject, err)
	}

	return app.outputResults(map[string]any{
		"subject":     subject,
		"source":      req.Source,
		"periodogram": result,
		"timestamp":   time.Now(),
	})
}

// RunFeatures outputs the label-grouped spectral profiles of a subject
func (app *FeatureApp) RunFeatures(subject string) error {
	grouped, err := app.engine.AverageTransforms(subject)
	if err != nil {
		return err
	}

	outputData := map[string]any{
		"features":  grouped,
		"timestamp": time.Now(),
	}
	if app.ctx.DetailedAnalysis {
		app.logger.Debug("Generating class summaries")
		outputData["class_summaries"] = sleep.NewSummaryCalculator(app.logger).Summarize(grouped)
	}

	app.collectFeatureMetrics(grouped)

	return app.outputResults(outputData)
}

// RunTransform outputs the spectrum of one explicit time range
func (app *FeatureApp) RunTransform(subject string, r sleep.TransformRange, opts sleep.TransformOptions) error {
	pre, err := app.engine.LoadSubject(subject)
	if err != nil {
		return err
	}

	spectrum, err := app.engine.Transform(pre.Derivative, r, opts)
	if err != nil {
		return fmt.Errorf("transform failed for subject %s: %w", subject, err)
	}

	return app.outputResults(map[string]any{
		"subject":   subject,
		"range":     r,
		"spectrum":  spectrum,
		"timestamp": time.Now(),
	})
}

// RunBatch processes many subjects in parallel. It returns an error when
// every subject failed.
func (app *FeatureApp) RunBatch(ctx context.Context, subjects []string) error {
	orchestrator, err := batch.NewOrchestrator(app.engine, app.config.Batch.MaxConcurrency, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create batch orchestrator: %w", err)
	}

	summary, runErr := orchestrator.Run(ctx, subjects)
	if summary == nil {
		return fmt.Errorf("batch execution failed: %w", runErr)
	}

	for _, result := range summary.Results {
		if result.Profiles != nil {
			app.collectFeatureMetrics(result.Profiles)
		}
	}
	app.collectBatchMetrics(summary)

	if err := app.outputResults(map[string]any{
		"batch_summary": cleanBatchSummary(summary, app.ctx.Verbose),
		"timestamp":     time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	if runErr != nil {
		return runErr
	}
	if summary.Failed > 0 && summary.Successful == 0 {
		return fmt.Errorf("all subjects failed")
	}
	return nil
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	if ctx.Logger != nil {
		return ctx.Logger
	}
	return logging.NewDefaultLogger()
}

// cleanBatchSummary drops raw profiles unless verbose output is requested
func cleanBatchSummary(summary *batch.Summary, verbose bool) map[string]any {
	subjects := make([]map[string]any, 0, len(summary.Results))
	for _, result := range summary.Results {
		clean := map[string]any{
			"subject":    result.Subject,
			"duration_s": result.Duration.Seconds(),
		}
		if result.Error != nil {
			clean["error"] = result.Error.Error()
		} else {
			clean["summaries"] = result.Summaries
			if verbose {
				clean["profiles"] = result.Profiles
			}
		}
		subjects = append(subjects, clean)
	}

	return map[string]any{
		"start_time":     summary.StartTime,
		"end_time":       summary.EndTime,
		"total_duration": summary.TotalDuration.Seconds(),
		"successful":     summary.Successful,
		"failed":         summary.Failed,
		"class_totals":   summary.ClassTotals,
		"subjects":       subjects,
	}
}

// outputResults formats data and writes it to the output file or Out
func (app *FeatureApp) outputResults(outputData map[string]any) error {
	// Create formatter
	var formatter output.Formatter
	switch app.config.OutputFormat {
	case "json":
		formatter = &output.JSONFormatter{}
	case "yaml":
		formatter = &output.YAMLFormatter{}
	case "csv":
		formatter = &output.CSVFormatter{}
	case "table":
		formatter = &output.TableFormatter{}
	default:
		formatter = &output.JSONFormatter{}
	}

	// Format data
	formattedData, err := formatter.Format(outputData, true)
	if err != nil {
		// NaN profiles cannot be encoded as JSON
		if strings.Contains(err.Error(), "unsupported value") {
			formattedData, err = formatter.Format(sanitizeForJSON(outputData), true)
		}
		if err != nil {
			return fmt.Errorf("failed to format output data: %w", err)
		}
	}

	// Write to file or Out
	if app.ctx.OutputFile != "" {
		return app.writeToFile(formattedData)
	}

	_, err = app.ctx.Out.Write(formattedData)
	return err
}

// writeToFile writes data to the specified output file
func (app *FeatureApp) writeToFile(data []byte) error {
	// Ensure directory exists
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}

// configureMetrics points the root logger at the metrics log file
func configureMetrics(logFile string) {
	err := rootlogger.Configure(logger.LogOptions{
		Out:          logFile,
		ReopenSignal: syscall.SIGHUP,
		Level:        logtypes.InfoLevel,
	})
	if err != nil {
		logging.Error(err, "Failed configuring log writer")
	}
}

func emitRootMetric(name string, value int64, tags []string) {
	rootcollector.Metric(name, value, tags)
}

// collectFeatureMetrics sends per-class segment counts to rootcollector
func (app *FeatureApp) collectFeatureMetrics(grouped *sleep.GroupedProfiles) {
	if !app.config.Metrics.Enabled || grouped == nil {
		return
	}

	for _, class := range grouped.Classes {
		count := grouped.Counts[class]
		tags := []string{
			"subject:" + grouped.Subject,
			"class:" + strconv.Itoa(class),
			"scheme:" + string(app.features.LabelScheme),
		}
		app.emitMetric("sleepspec.features.segments", int64(count.Valid()), tags)
		app.emitMetric("sleepspec.features.dropped", int64(count.Dropped), tags)
	}
}

// collectBatchMetrics sends batch outcome metrics to rootcollector
func (app *FeatureApp) collectBatchMetrics(summary *batch.Summary) {
	if !app.config.Metrics.Enabled {
		return
	}

	app.emitMetric("sleepspec.batch.subjects", int64(summary.Successful), []string{"status:success"})
	app.emitMetric("sleepspec.batch.subjects", int64(summary.Failed), []string{"status:failed"})
	app.emitMetric("sleepspec.batch.duration.milliseconds", summary.TotalDuration.Milliseconds(), nil)
}

// sanitizeForJSON rebuilds data with NaN and infinite floats replaced by 0
func sanitizeForJSON(data any) any {
	if data == nil {
		return nil
	}
	return sanitizeValue(reflect.ValueOf(data))
}

func sanitizeValue(val reflect.Value) any {
	switch val.Kind() {
	case reflect.Interface, reflect.Ptr:
		if val.IsNil() {
			return nil
		}
		return sanitizeValue(val.Elem())
	case reflect.Float32, reflect.Float64:
		f := val.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0.0
		}
		return f
	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.IsNil() {
			return nil
		}
		result := make([]any, val.Len())
		for i := range result {
			result[i] = sanitizeValue(val.Index(i))
		}
		return result
	case reflect.Map:
		result := make(map[string]any, val.Len())
		for _, key := range val.MapKeys() {
			result[fmt.Sprintf("%v", key.Interface())] = sanitizeValue(val.MapIndex(key))
		}
		return result
	case reflect.Struct:
		if t, ok := val.Interface().(time.Time); ok {
			return t
		}
		result := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}

			// Get JSON tag name or use field name
			name := field.Name
			if tag := field.Tag.Get("json"); tag != "" {
				if tag == "-" {
					continue
				}
				if parts := strings.Split(tag, ","); parts[0] != "" {
					name = parts[0]
				}
			}
			result[name] = sanitizeValue(val.Field(i))
		}
		return result
	default:
		if !val.IsValid() {
			return nil
		}
		return val.Interface()
	}
}
