// Package sweep runs a battery of benchmark cases, typically the same input
// size at increasing thread counts. Batteries are YAML files so a scaling
// study can be checked in and rerun.
package sweep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"primebench/internal/bench"
	"primebench/internal/config"
	"primebench/internal/logging"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Battery is an ordered collection of benchmark cases.
type Battery struct {
	Version int    `yaml:"version"`
	Cases   []Case `yaml:"cases"`
}

// Case overrides the base configuration for one run. Zero counts keep the
// base value; zero is never a valid count. Seed is a pointer because 0 is a
// valid seed.
type Case struct {
	ID       string `yaml:"id"`
	Elements int    `yaml:"elements,omitempty"`
	Threads  int    `yaml:"threads,omitempty"`
	Repeat   int    `yaml:"repeat,omitempty"`
	Seed     *int64 `yaml:"seed,omitempty"`
}

// Result captures the outcome of one case. Success means the run completed;
// whether the outputs matched is in Report.Equal.
type Result struct {
	CaseID     string
	Success    bool
	Report     *bench.Report
	Error      string
	Err        error
	DurationMs int64
}

// LoadBattery reads a YAML battery file from disk.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Battery
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: failed to parse battery YAML: %v", config.ErrInvalid, err)
	}
	return &b, nil
}

// ThreadScaling builds a battery that runs elements at every thread count.
func ThreadScaling(elements int, threads []int) *Battery {
	b := &Battery{Version: 1}
	for _, t := range threads {
		b.Cases = append(b.Cases, Case{
			ID:       fmt.Sprintf("n%d-t%d", elements, t),
			Elements: elements,
			Threads:  t,
		})
	}
	return b
}

// RunBattery executes all cases in order against copies of base. It stops
// at the first case whose run fails; the returned slice holds every case
// that ran. Differing outputs do not stop the battery.
func RunBattery(ctx context.Context, base *config.Config, b *Battery, logger *zap.Logger, opts ...bench.RunnerOption) ([]Result, error) {
	if b == nil || len(b.Cases) == 0 {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timer := logging.StartTimer(logging.CategoryBench, fmt.Sprintf("sweep of %d cases", len(b.Cases)))
	defer timer.StopWithInfo()

	results := make([]Result, 0, len(b.Cases))
	for i, c := range b.Cases {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		id := strings.TrimSpace(c.ID)
		if id == "" {
			id = fmt.Sprintf("case-%d", i+1)
		}

		start := time.Now()
		cfg := c.apply(base)
		res := Result{CaseID: id}

		rep, err := bench.NewRunner(cfg, logger.With(zap.String("case", id)), opts...).Run(ctx)
		if err != nil {
			res.Err = err
			res.Error = err.Error()
			logging.BenchError("sweep case %s failed: %v", id, err)
		} else {
			res.Success = true
			res.Report = rep
			logging.Bench("sweep case %s: run %s speedup=%.3f equal=%v", id, rep.RunID, rep.Speedup, rep.Equal)
		}

		res.DurationMs = time.Since(start).Milliseconds()
		results = append(results, res)

		if !res.Success {
			break
		}
	}

	return results, nil
}

func (c Case) apply(base *config.Config) *config.Config {
	cfg := *base
	if c.Elements != 0 {
		cfg.Benchmark.Elements = c.Elements
	}
	if c.Threads != 0 {
		cfg.Benchmark.Threads = c.Threads
	}
	if c.Repeat != 0 {
		cfg.Benchmark.Repeat = c.Repeat
	}
	if c.Seed != nil {
		cfg.Benchmark.Seed = *c.Seed
	}
	return &cfg
}

// FirstError returns the error of the first failed case, if any. Cases
// whose outputs differ are not failures.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("case %s: %w", r.CaseID, r.Err)
		}
	}
	return nil
}

// DefaultBatteryPath returns the conventional battery path in a workspace.
func DefaultBatteryPath(workspace string) string {
	return filepath.Join(workspace, ".primebench", "sweep.yaml")
}
