package main

import (
	"context"
	"fmt"

	"primebench/internal/report"
	"primebench/internal/store"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recorded runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded benchmark runs",
	Long: `Shows the most recent runs stored in the history database, newest first.
Runs are recorded when history is enabled in the config, PRIMEBENCH_DB is
set, or run is given --save.`,
	Args: cobra.NoArgs,
	RunE: showHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of runs to show")
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	hs, err := store.NewHistoryStore(cfg.History.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hs.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := hs.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	return report.History(cmd.OutOrStdout(), records, report.DetectTheme())
}
