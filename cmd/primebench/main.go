package main

import (
	"errors"
	"fmt"
	"os"

	"primebench/internal/bench"
	"primebench/internal/config"
	"primebench/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	logDir     string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "primebench",
	Short: "Sequential vs. dynamically scheduled concurrent prime transform benchmark",
	Long: `primebench times two ways of computing, over a random integer series, a
series where every prime is replaced by its square root:

  - a single-threaded pass
  - a concurrent pass where workers pull indices from a shared,
    mutex-guarded cursor until it is exhausted

Both outputs are compared bit for bit and the speedup is reported.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Category log directory (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(bench.ExitCode(err))
	}
}

// loadConfig reads the config file and initializes category logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logDir != "" {
		cfg.Logging.Dir = logDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := logging.Initialize(cfg.Logging.Dir, logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.Format == "json",
		Enabled:    cfg.Logging.IsCategoryEnabled,
	}); err != nil {
		// File logging is diagnostic only.
		logger.Warn("category logging disabled", zap.Error(err))
	}
	logging.Boot("config loaded from %s", configPath)
	return cfg, nil
}

func isInvalidConfig(err error) bool {
	return errors.Is(err, config.ErrInvalid)
}
