package main

import (
	"context"
	"fmt"
	"os"

	"primebench/internal/bench"
	"primebench/internal/config"
	"primebench/internal/report"
	"primebench/internal/store"
	"primebench/internal/sweep"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sweepElements int
	sweepThreads  []int
)

// sweepCmd runs a battery of benchmark cases
var sweepCmd = &cobra.Command{
	Use:   "sweep [battery.yaml]",
	Short: "Run a series of benchmarks, e.g. one input size at several thread counts",
	Long: `Runs every case of a YAML battery in order and prints one row per case.
Without an argument, .primebench/sweep.yaml is used if it exists and no
--elements/--threads were given; otherwise --elements runs at each of
--threads.

Stops at the first case whose run fails and exits with that case's
status. Differing outputs are shown as DIFFERENT and exit 0, as in run.

Example:
  primebench sweep -n 1000000 --threads 1,2,4,8,16
  primebench sweep .primebench/sweep.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().IntVarP(&sweepElements, "elements", "n", 0, "Elements per case (default: config value)")
	sweepCmd.Flags().IntSliceVarP(&sweepThreads, "threads", "t", []int{1, 2, 4, 8}, "Thread counts to sweep")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else if !cmd.Flags().Changed("elements") && !cmd.Flags().Changed("threads") {
		if def := sweep.DefaultBatteryPath("."); fileExists(def) {
			path = def
		}
	}

	var battery *sweep.Battery
	if path != "" {
		battery, err = sweep.LoadBattery(path)
		if err != nil {
			return err
		}
		logger.Debug("loaded sweep battery", zap.String("path", path), zap.Int("cases", len(battery.Cases)))
	} else {
		n := sweepElements
		if n == 0 {
			n = cfg.Benchmark.Elements
		}
		if n <= 0 {
			_ = cmd.Usage()
			return fmt.Errorf("%w: sweep needs --elements or a battery file", config.ErrInvalid)
		}
		battery = sweep.ThreadScaling(n, sweepThreads)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

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

	results, err := sweep.RunBattery(ctx, cfg, battery, logger, opts...)
	if rerr := report.Sweep(cmd.OutOrStdout(), results, report.DetectTheme()); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}
	return sweep.FirstError(results)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
