package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv makes sure no override leaks in from the caller's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PRIMEBENCH_ELEMENTS", "PRIMEBENCH_THREADS", "PRIMEBENCH_SEED", "PRIMEBENCH_DB", "PRIMEBENCH_LOG_DIR"} {
		t.Setenv(k, "")
	}
}

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Benchmark.Elements = 1000
	cfg.Benchmark.Threads = 4
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "primebench", cfg.Name)
	assert.Equal(t, 1000000, cfg.Benchmark.MaxValue)
	assert.Equal(t, 1, cfg.Benchmark.Repeat)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.False(t, cfg.History.Enabled)
	assert.False(t, cfg.Logging.DebugMode)
	assert.Zero(t, cfg.Limits.MaxWorkers, "no worker cap unless one is configured")

	// Counts have no defaults; a bare default config is not runnable.
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "primebench.yaml")

	cfg := validConfig()
	cfg.Benchmark.Seed = 99
	cfg.Report.Format = "json"
	cfg.Logging.Categories = map[string]bool{"workers": false}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "primebench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("benchmark:\n  elements: 50\n  threads: 3\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Benchmark.Elements)
	assert.Equal(t, 3, cfg.Benchmark.Threads)
	assert.Equal(t, 1000000, cfg.Benchmark.MaxValue)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "primebench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("benchmark: [not, a, map"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("counts and seed", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMEBENCH_ELEMENTS", "1234")
		t.Setenv("PRIMEBENCH_THREADS", "8")
		t.Setenv("PRIMEBENCH_SEED", "-5")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, 1234, cfg.Benchmark.Elements)
		assert.Equal(t, 8, cfg.Benchmark.Threads)
		assert.Equal(t, int64(-5), cfg.Benchmark.Seed)
	})

	t.Run("database path enables history", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMEBENCH_DB", "/tmp/x.db")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.True(t, cfg.History.Enabled)
		assert.Equal(t, "/tmp/x.db", cfg.History.DatabasePath)
	})

	t.Run("log dir", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMEBENCH_LOG_DIR", "/var/log/pb")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.Equal(t, "/var/log/pb", cfg.Logging.Dir)
	})

	t.Run("malformed count", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PRIMEBENCH_THREADS", "many")

		cfg := DefaultConfig()
		assert.ErrorIs(t, cfg.applyEnvOverrides(), ErrInvalid)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"zero elements", func(c *Config) { c.Benchmark.Elements = 0 }, false},
		{"negative threads", func(c *Config) { c.Benchmark.Threads = -1 }, false},
		{"threads above elements is fine", func(c *Config) { c.Benchmark.Threads = 1 << 20 }, true},
		{"zero max value", func(c *Config) { c.Benchmark.MaxValue = 0 }, false},
		{"zero repeat", func(c *Config) { c.Benchmark.Repeat = 0 }, false},
		{"unknown format", func(c *Config) { c.Report.Format = "xml" }, false},
		{"history without path", func(c *Config) { c.History.Enabled = true; c.History.DatabasePath = "" }, false},
		{"negative max workers", func(c *Config) { c.Limits.MaxWorkers = -1 }, false},
		{"unlimited workers", func(c *Config) { c.Limits.MaxWorkers = 0 }, true},
		{"zero memory", func(c *Config) { c.Limits.MaxMemoryMB = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10*time.Second, cfg.GetSlowThreshold())

	cfg.Report.SlowThreshold = "250ms"
	assert.Equal(t, 250*time.Millisecond, cfg.GetSlowThreshold())

	cfg.Report.SlowThreshold = "garbage"
	assert.Equal(t, 10*time.Second, cfg.GetSlowThreshold())

	cfg.Limits.MaxMemoryMB = 2
	assert.Equal(t, int64(2*1024*1024), cfg.MemoryBudgetBytes())
	assert.Equal(t, int64(24), RequiredBytes(1))
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	assert.False(t, lc.IsCategoryEnabled("bench"))

	lc.DebugMode = true
	assert.True(t, lc.IsCategoryEnabled("bench"))

	lc.Categories = map[string]bool{"bench": false}
	assert.False(t, lc.IsCategoryEnabled("bench"))
	assert.True(t, lc.IsCategoryEnabled("workers"))
}
