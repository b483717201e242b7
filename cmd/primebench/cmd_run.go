package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"primebench/internal/bench"
	"primebench/internal/config"
	"primebench/internal/report"
	"primebench/internal/store"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runElements   int
	runThreads    int
	runSeed       int64
	runMaxValue   int
	runRepeat     int
	runFormat     string
	runSave       bool
	runMaxWorkers int
)

// runCmd runs one benchmark
var runCmd = &cobra.Command{
	Use:   "run [elements] [threads]",
	Short: "Run the sequential and concurrent passes and compare them",
	Long: `Generates a random series of <elements> integers, transforms it once on a
single goroutine and once with <threads> workers sharing a cursor, checks
that both outputs are identical, and prints the timings.

Counts may also come from --elements/--threads, PRIMEBENCH_ELEMENTS /
PRIMEBENCH_THREADS, or the config file. A thread count above the element
count is clamped.

Exit status: 1 invalid configuration, 2 insufficient memory,
3 worker creation failure, 4 worker join failure, 130 interrupted.
Outputs that differ are reported as DIFFERENT and exit 0.

Example:
  primebench run 1000000 8
  primebench run -n 500000 -t 4 --repeat 5 --format markdown`,
	Args: cobra.MaximumNArgs(2),
	RunE: runBenchmark,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runElements, "elements", "n", 0, "Number of elements in the input series")
	cmd.Flags().IntVarP(&runThreads, "threads", "t", 0, "Number of concurrent workers")
	cmd.Flags().Int64Var(&runSeed, "seed", 1, "Input generator seed")
	cmd.Flags().IntVar(&runMaxValue, "max-value", 1000000, "Inputs are drawn from [0, max-value)")
	cmd.Flags().IntVar(&runRepeat, "repeat", 1, "Passes per strategy over the same input")
	cmd.Flags().StringVarP(&runFormat, "format", "f", "text", "Report format: text, markdown, json, yaml")
	cmd.Flags().BoolVar(&runSave, "save", false, "Record the run in the history database")
	cmd.Flags().IntVar(&runMaxWorkers, "max-workers", 0, "Refuse to create more workers than this (0 = no cap)")
}

// runBenchmark executes a single benchmark run
func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg, args); err != nil {
		_ = cmd.Usage()
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	var opts []bench.RunnerOption
	if cfg.History.Enabled {
		hs, err := store.NewHistoryStore(cfg.History.DatabasePath)
		if err != nil {
			logger.Warn("history disabled", zap.String("path", cfg.History.DatabasePath), zap.Error(err))
		} else {
			defer hs.Close()
			opts = append(opts, bench.WithRecorder(hs))
		}
	}

	logger.Debug("starting benchmark",
		zap.Int("elements", cfg.Benchmark.Elements),
		zap.Int("threads", cfg.Benchmark.Threads),
		zap.Int64("seed", cfg.Benchmark.Seed))

	rep, err := bench.NewRunner(cfg, logger, opts...).Run(ctx)
	if err != nil {
		if isInvalidConfig(err) {
			_ = cmd.Usage()
		}
		return err
	}

	out := cmd.OutOrStdout()
	return report.Render(out, rep, report.Options{
		Format: cfg.Report.Format,
		Pretty: out == os.Stdout && isatty.IsTerminal(os.Stdout.Fd()),
		Theme:  report.DetectTheme(),
	})
}

// applyRunFlags layers positional arguments and explicitly set flags over
// the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("elements") {
		cfg.Benchmark.Elements = runElements
	}
	if flags.Changed("threads") {
		cfg.Benchmark.Threads = runThreads
	}
	if flags.Changed("seed") {
		cfg.Benchmark.Seed = runSeed
	}
	if flags.Changed("max-value") {
		cfg.Benchmark.MaxValue = runMaxValue
	}
	if flags.Changed("repeat") {
		cfg.Benchmark.Repeat = runRepeat
	}
	if flags.Changed("format") {
		cfg.Report.Format = runFormat
	}
	if flags.Changed("save") {
		cfg.History.Enabled = runSave
	}
	if flags.Changed("max-workers") {
		cfg.Limits.MaxWorkers = runMaxWorkers
	}

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: element count %q is not an integer", config.ErrInvalid, args[0])
		}
		cfg.Benchmark.Elements = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: thread count %q is not an integer", config.ErrInvalid, args[1])
		}
		cfg.Benchmark.Threads = n
	}
	return nil
}
