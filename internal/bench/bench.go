// Package bench drives one benchmark invocation: it generates the input
// series, runs the sequential and concurrent passes over it, compares their
// outputs, and summarizes the timings.
package bench

import (
	"context"
	"fmt"
	"time"

	"primebench/internal/compare"
	"primebench/internal/config"
	"primebench/internal/input"
	"primebench/internal/logging"
	"primebench/internal/transform"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes pass durations, in seconds, over all repetitions.
type Stats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// Report is everything a run hands to the reporting layer.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	Elements         int   `json:"elements" yaml:"elements"`
	RequestedThreads int   `json:"requested_threads" yaml:"requested_threads"`
	Threads          int   `json:"threads" yaml:"threads"`
	Seed             int64 `json:"seed" yaml:"seed"`
	MaxValue         int   `json:"max_value" yaml:"max_value"`
	Repeat           int   `json:"repeat" yaml:"repeat"`
	Primes           int   `json:"primes" yaml:"primes"`

	SequentialSeconds float64 `json:"sequential_seconds" yaml:"sequential_seconds"`
	ConcurrentSeconds float64 `json:"concurrent_seconds" yaml:"concurrent_seconds"`
	Speedup           float64 `json:"speedup" yaml:"speedup"`

	Sequential Stats `json:"sequential" yaml:"sequential"`
	Concurrent Stats `json:"concurrent" yaml:"concurrent"`

	Equal         bool  `json:"equal" yaml:"equal"`
	FirstMismatch int   `json:"first_mismatch" yaml:"first_mismatch"` // -1 when Equal
	PerWorker     []int `json:"per_worker" yaml:"per_worker"`

	SequentialOutput []float64 `json:"-" yaml:"-"`
	ConcurrentOutput []float64 `json:"-" yaml:"-"`
}

// Recorder persists finished reports.
type Recorder interface {
	Record(ctx context.Context, r *Report) error
}

// Runner executes benchmark runs for one configuration.
type Runner struct {
	cfg      *config.Config
	logger   *zap.Logger
	recorder Recorder
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder stores every successful report with rec.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// NewRunner creates a runner. A nil logger is replaced with a no-op logger.
func NewRunner(cfg *config.Config, logger *zap.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one benchmark invocation. Any error aborts the whole run;
// no partial report is returned.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	b := r.cfg.Benchmark
	need := config.RequiredBytes(b.Elements)
	if budget := r.cfg.MemoryBudgetBytes(); need > budget {
		return nil, fmt.Errorf("%w: %d elements need %d bytes, budget is %d bytes", ErrResourceExhausted, b.Elements, need, budget)
	}

	runID := uuid.New().String()
	runLog := logging.WithRunID(logging.CategoryBench, runID).
		WithField("elements", b.Elements).
		WithField("threads", b.Threads)
	runLog.Info("run started (seed=%d repeat=%d)", b.Seed, b.Repeat)
	logger := r.logger.With(zap.String("run_id", runID))

	started := time.Now()
	series, err := input.Generate(b.Elements, b.MaxValue, b.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	logging.BenchDebug("run %s: generated %d inputs in [0, %d)", runID, len(series), b.MaxValue)

	report := &Report{
		RunID:            runID,
		StartedAt:        started,
		Elements:         b.Elements,
		RequestedThreads: b.Threads,
		Seed:             b.Seed,
		MaxValue:         b.MaxValue,
		Repeat:           b.Repeat,
		Equal:            true,
		FirstMismatch:    -1,
	}

	slow := r.cfg.GetSlowThreshold()
	seqTimes := make([]float64, 0, b.Repeat)
	concTimes := make([]float64, 0, b.Repeat)

	for i := 0; i < b.Repeat; i++ {
		timer := logging.StartTimer(logging.CategoryPerformance, fmt.Sprintf("run %s sequential pass %d", runID, i))
		seq := transform.Sequential(series)
		timer.StopWithThreshold(slow)

		timer = logging.StartTimer(logging.CategoryPerformance, fmt.Sprintf("run %s concurrent pass %d", runID, i))
		conc, err := transform.Concurrent(ctx, series, b.Threads, transform.WithMaxWorkers(r.cfg.Limits.MaxWorkers))
		timer.StopWithThreshold(slow)
		if err != nil {
			runLog.Error("concurrent pass %d failed: %v", i, err)
			return nil, fmt.Errorf("concurrent pass %d: %w", i, err)
		}

		seqTimes = append(seqTimes, seq.Elapsed.Seconds())
		concTimes = append(concTimes, conc.Elapsed.Seconds())

		if idx, differ := compare.FirstMismatch(seq.Output, conc.Output, b.Elements); differ && report.Equal {
			report.Equal = false
			report.FirstMismatch = idx
			runLog.Warn("pass %d: outputs differ at index %d", i, idx)
		}

		// The last repetition's outputs and worker split are kept.
		report.SequentialOutput = seq.Output
		report.ConcurrentOutput = conc.Output
		report.Threads = conc.Workers
		report.PerWorker = conc.PerWorker
	}

	report.Primes = countPrimes(series, report.SequentialOutput)
	report.Sequential = summarize(seqTimes)
	report.Concurrent = summarize(concTimes)
	report.SequentialSeconds = report.Sequential.Mean
	report.ConcurrentSeconds = report.Concurrent.Mean
	if report.ConcurrentSeconds > 0 {
		report.Speedup = report.SequentialSeconds / report.ConcurrentSeconds
	}

	logger.Info("benchmark complete",
		zap.Int("elements", report.Elements),
		zap.Int("threads", report.Threads),
		zap.Float64("sequential_s", report.SequentialSeconds),
		zap.Float64("concurrent_s", report.ConcurrentSeconds),
		zap.Float64("speedup", report.Speedup),
		zap.Bool("equal", report.Equal),
	)
	runLog.Info("run finished: speedup=%.3f equal=%v", report.Speedup, report.Equal)

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, report); err != nil {
			// History is a convenience; a failed write does not void the run.
			logger.Warn("failed to record run", zap.Error(err))
		}
	}

	return report, nil
}

// countPrimes counts elements the transform replaced by their square root.
// sqrt(v) == v only for 0 and 1, neither of which is prime.
func countPrimes(series []int, out []float64) int {
	n := 0
	for i, v := range series {
		if out[i] != float64(v) {
			n++
		}
	}
	return n
}

func summarize(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	mean, std := stat.MeanStdDev(samples, nil)
	if len(samples) == 1 {
		std = 0
	}
	return Stats{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(samples),
		Max:    floats.Max(samples),
	}
}
