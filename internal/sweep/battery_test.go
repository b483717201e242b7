package sweep

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"primebench/internal/bench"
	"primebench/internal/config"
)

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Benchmark.Elements = 64
	cfg.Benchmark.Threads = 2
	return cfg
}

func TestLoadBattery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	content := `version: 1
cases:
  - id: baseline
    elements: 1000
    threads: 1
  - id: wide
    threads: 8
    repeat: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write battery: %v", err)
	}

	b, err := LoadBattery(path)
	if err != nil {
		t.Fatalf("LoadBattery failed: %v", err)
	}
	if b.Version != 1 {
		t.Fatalf("Version = %d, want 1", b.Version)
	}
	if len(b.Cases) != 2 || b.Cases[0].ID != "baseline" || b.Cases[1].Repeat != 3 {
		t.Fatalf("unexpected cases: %+v", b.Cases)
	}
}

func TestLoadBatteryMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	if err := os.WriteFile(path, []byte("cases: [\n"), 0o644); err != nil {
		t.Fatalf("write battery: %v", err)
	}
	_, err := LoadBattery(path)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestRunBatterySuccess(t *testing.T) {
	b := ThreadScaling(200, []int{1, 2, 4})

	results, err := RunBattery(context.Background(), baseConfig(), b, nil)
	if err != nil {
		t.Fatalf("RunBattery failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results len = %d, want 3", len(results))
	}
	for i, want := range []int{1, 2, 4} {
		r := results[i]
		if !r.Success {
			t.Fatalf("case %s failed: %s", r.CaseID, r.Error)
		}
		if r.Report.Threads != want || r.Report.Elements != 200 {
			t.Fatalf("case %s ran with %d elements / %d threads", r.CaseID, r.Report.Elements, r.Report.Threads)
		}
	}
	if results[0].CaseID != "n200-t1" {
		t.Fatalf("unexpected case id: %s", results[0].CaseID)
	}
	if err := FirstError(results); err != nil {
		t.Fatalf("FirstError = %v, want nil", err)
	}
}

func TestRunBatteryStopsAtFirstFailure(t *testing.T) {
	base := baseConfig()
	base.Limits.MaxWorkers = 2
	b := &Battery{
		Version: 1,
		Cases: []Case{
			{ID: "ok", Threads: 2},
			{ID: "too-wide", Threads: 3},
			{ID: "after", Threads: 1},
		},
	}

	results, err := RunBattery(context.Background(), base, b, nil)
	if err != nil {
		t.Fatalf("RunBattery failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected fail-fast after second case, got %d", len(results))
	}
	if !results[0].Success || results[1].Success {
		t.Fatalf("unexpected outcomes: %+v", results)
	}
	if !errors.Is(FirstError(results), bench.ErrWorkerSpawn) {
		t.Fatalf("FirstError = %v, want ErrWorkerSpawn", FirstError(results))
	}
	if !strings.Contains(results[1].Error, "limit is 2") {
		t.Fatalf("unexpected error: %s", results[1].Error)
	}
}

func TestFirstErrorIgnoresDifferingOutputs(t *testing.T) {
	results := []Result{
		{CaseID: "a", Success: true, Report: &bench.Report{Equal: false, FirstMismatch: 3}},
		{CaseID: "b", Success: true, Report: &bench.Report{Equal: true, FirstMismatch: -1}},
	}
	if err := FirstError(results); err != nil {
		t.Fatalf("FirstError = %v, want nil for completed cases", err)
	}
}

func TestRunBatteryDoesNotMutateBase(t *testing.T) {
	base := baseConfig()
	seed := int64(9)
	b := &Battery{Cases: []Case{{Elements: 10, Threads: 5, Seed: &seed}}}

	results, err := RunBattery(context.Background(), base, b, nil)
	if err != nil {
		t.Fatalf("RunBattery failed: %v", err)
	}
	if results[0].CaseID != "case-1" {
		t.Fatalf("unnamed case id = %s", results[0].CaseID)
	}
	if base.Benchmark.Elements != 64 || base.Benchmark.Threads != 2 || base.Benchmark.Seed != 1 {
		t.Fatalf("base config mutated: %+v", base.Benchmark)
	}
}

func TestCaseSeedZeroOverridesBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	content := `cases:
  - id: zero-seed
    seed: 0
  - id: inherit
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write battery: %v", err)
	}
	b, err := LoadBattery(path)
	if err != nil {
		t.Fatalf("LoadBattery failed: %v", err)
	}

	results, err := RunBattery(context.Background(), baseConfig(), b, nil)
	if err != nil {
		t.Fatalf("RunBattery failed: %v", err)
	}
	if got := results[0].Report.Seed; got != 0 {
		t.Fatalf("zero-seed case ran with seed %d, want 0", got)
	}
	if got := results[1].Report.Seed; got != 1 {
		t.Fatalf("inherit case ran with seed %d, want base seed 1", got)
	}
}

func TestRunBatteryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := RunBattery(ctx, baseConfig(), ThreadScaling(10, []int{1}), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestRunBatteryEmpty(t *testing.T) {
	results, err := RunBattery(context.Background(), baseConfig(), &Battery{}, nil)
	if err != nil {
		t.Fatalf("RunBattery returned error: %v", err)
	}
	if results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestDefaultBatteryPath(t *testing.T) {
	path := DefaultBatteryPath("/workspace")
	if !strings.Contains(path, ".primebench") || !strings.HasSuffix(path, "sweep.yaml") {
		t.Fatalf("unexpected battery path: %s", path)
	}
}
