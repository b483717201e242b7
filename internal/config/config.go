package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration that cannot drive a benchmark run.
var ErrInvalid = errors.New("invalid configuration")

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "primebench.yaml"

// Config holds all primebench configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Benchmark parameters
	Benchmark BenchmarkConfig `yaml:"benchmark"`

	// Resource limits applied before any work starts
	Limits Limits `yaml:"limits"`

	// Run history (SQLite)
	History HistoryConfig `yaml:"history"`

	// Report rendering
	Report ReportConfig `yaml:"report"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BenchmarkConfig configures a single benchmark invocation.
type BenchmarkConfig struct {
	Elements int   `yaml:"elements"`  // length of the input series
	Threads  int   `yaml:"threads"`   // concurrent workers, clamped to Elements
	Seed     int64 `yaml:"seed"`      // input generator seed
	MaxValue int   `yaml:"max_value"` // inputs are drawn from [0, MaxValue)
	Repeat   int   `yaml:"repeat"`    // passes per strategy over the same input
}

// HistoryConfig configures the run history database.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Format        string `yaml:"format"`         // text, markdown, json, yaml
	SlowThreshold string `yaml:"slow_threshold"` // passes slower than this are logged as warnings
}

// DefaultConfig returns the default configuration. Elements and Threads are
// left at zero; they must come from the command line, the environment, or
// the config file.
func DefaultConfig() *Config {
	return &Config{
		Name:    "primebench",
		Version: "1.0.0",

		Benchmark: BenchmarkConfig{
			Seed:     1,
			MaxValue: 1000000,
			Repeat:   1,
		},

		Limits: Limits{
			MaxWorkers:  0,
			MaxMemoryMB: 4096,
		},

		History: HistoryConfig{
			Enabled:      false,
			DatabasePath: filepath.Join(".primebench", "history.db"),
		},

		Report: ReportConfig{
			Format:        "text",
			SlowThreshold: "10s",
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			Dir:       filepath.Join(".primebench", "logs"),
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalid, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PRIMEBENCH_ELEMENTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PRIMEBENCH_ELEMENTS=%q is not an integer", ErrInvalid, v)
		}
		c.Benchmark.Elements = n
	}
	if v := os.Getenv("PRIMEBENCH_THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PRIMEBENCH_THREADS=%q is not an integer", ErrInvalid, v)
		}
		c.Benchmark.Threads = n
	}
	if v := os.Getenv("PRIMEBENCH_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: PRIMEBENCH_SEED=%q is not an integer", ErrInvalid, v)
		}
		c.Benchmark.Seed = n
	}
	if path := os.Getenv("PRIMEBENCH_DB"); path != "" {
		c.History.DatabasePath = path
		c.History.Enabled = true
	}
	if dir := os.Getenv("PRIMEBENCH_LOG_DIR"); dir != "" {
		c.Logging.Dir = dir
	}
	return nil
}

// GetSlowThreshold returns the slow-pass threshold as a duration.
func (c *Config) GetSlowThreshold() time.Duration {
	d, err := time.ParseDuration(c.Report.SlowThreshold)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ValidFormats lists all supported report formats.
var ValidFormats = []string{"text", "markdown", "json", "yaml"}

// Validate checks that the configuration can drive a benchmark run. All
// failures wrap ErrInvalid.
func (c *Config) Validate() error {
	b := c.Benchmark
	if b.Elements <= 0 {
		return fmt.Errorf("%w: element count must be positive, got %d", ErrInvalid, b.Elements)
	}
	if b.Threads <= 0 {
		return fmt.Errorf("%w: thread count must be positive, got %d", ErrInvalid, b.Threads)
	}
	if b.MaxValue <= 0 {
		return fmt.Errorf("%w: max_value must be positive, got %d", ErrInvalid, b.MaxValue)
	}
	if b.Repeat <= 0 {
		return fmt.Errorf("%w: repeat must be positive, got %d", ErrInvalid, b.Repeat)
	}

	validFormat := false
	for _, f := range ValidFormats {
		if c.Report.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("%w: report format %q (valid: %v)", ErrInvalid, c.Report.Format, ValidFormats)
	}

	if c.History.Enabled && c.History.DatabasePath == "" {
		return fmt.Errorf("%w: history enabled without database_path", ErrInvalid)
	}

	return c.ValidateLimits()
}
