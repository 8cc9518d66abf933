package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"briefline/internal/domain/entity"
	"briefline/internal/usecase/orchestrate"
)

var (
	runMode       string
	forceFallback bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline run and exit with the verdict",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, ok := parseMode(runMode)
		if !ok {
			return fmt.Errorf("unknown mode %q (want manual|daily|demo|brief)", runMode)
		}

		logger := newLogger()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, fetchers, contentFetcher, assistant := buildRunConfig(logger, mode)
		cfg.ForceFallback = forceFallback

		startedAt := time.Now().UTC()
		runID := startedAt.Format("20060102_150405")

		outcome, err := orchestrate.Run(ctx, cfg, fetchers, contentFetcher, assistant, runID, startedAt)
		if err != nil {
			return fmt.Errorf("run %s aborted: %w", runID, err)
		}
		logRunOutcome(logger, outcome)
		if outcome.RunMeta.Status != entity.RunStatusOK {
			return fmt.Errorf("run %s FAIL: %s", runID, outcome.RunMeta.FailReason)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", string(entity.ModeManual), "run mode: manual|daily|demo|brief")
	runCmd.Flags().BoolVar(&forceFallback, "force-fallback", false, "force the Z0 supply fallback even when collection is healthy")
}

func logRunOutcome(logger *slog.Logger, outcome orchestrate.Outcome) {
	logger.Info("run finished",
		slog.String("run_id", outcome.RunMeta.RunID),
		slog.String("status", string(outcome.RunMeta.Status)),
		slog.Int("selected_events", len(outcome.Events)),
		slog.Int("ai_selected_events", outcome.AISelected),
		slog.Int("pool_total", outcome.CollectionMeta.TotalItems),
		slog.Bool("fallback_used", outcome.SupplyFallback.FallbackUsed),
		slog.String("delivery_path", outcome.DeliveryPath))
}
