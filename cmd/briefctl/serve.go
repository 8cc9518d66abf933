package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"briefline/internal/config"
	"briefline/internal/domain/entity"
	"briefline/internal/infra/runner"
	"briefline/internal/usecase/orchestrate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cron-scheduled daily pipeline with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		metrics := runner.NewRunnerMetrics()
		metrics.MustRegister()

		runnerCfg, err := runner.LoadConfigFromEnv(logger, metrics)
		if err != nil {
			return fmt.Errorf("load scheduler config: %w", err)
		}

		healthServer := runner.NewHealthServer(fmt.Sprintf(":%d", runnerCfg.HealthPort), logger)
		go func() {
			if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
				logger.Error("health server failed", slog.Any("error", err))
			}
		}()

		metricsAddr := config.LoadEnvString("METRICS_ADDR", ":9091")
		go serveMetrics(ctx, logger, metricsAddr)

		location, err := time.LoadLocation(runnerCfg.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone %s: %w", runnerCfg.Timezone, err)
		}

		scheduler := cron.New(cron.WithLocation(location))
		_, err = scheduler.AddFunc(runnerCfg.CronSchedule, func() {
			runScheduled(ctx, logger, metrics, runnerCfg.RunTimeout)
		})
		if err != nil {
			return fmt.Errorf("register cron job %q: %w", runnerCfg.CronSchedule, err)
		}

		scheduler.Start()
		healthServer.SetReady(true)
		logger.Info("scheduler started",
			slog.String("cron_schedule", runnerCfg.CronSchedule),
			slog.String("timezone", runnerCfg.Timezone))

		if _, err := runner.WriteSchedulerMeta(outputDir, true, schedulerDailyTime, lastRunStatus(), time.Now()); err != nil {
			logger.Warn("failed to write scheduler meta", slog.Any("error", err))
		}

		<-ctx.Done()
		logger.Info("shutting down scheduler")
		stopCtx := scheduler.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(30 * time.Second):
			logger.Warn("scheduler stop timed out with a job still running")
		}
		return nil
	},
}

// runScheduled executes one daily-mode run under the cron trigger, recording
// scheduler metrics and refreshing the scheduler contract.
func runScheduled(ctx context.Context, logger *slog.Logger, metrics *runner.RunnerMetrics, timeout time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg, fetchers, contentFetcher, assistant := buildRunConfig(logger, entity.ModeDaily)
	startedAt := time.Now().UTC()
	runID := startedAt.Format("20060102_150405")

	outcome, err := orchestrate.Run(runCtx, cfg, fetchers, contentFetcher, assistant, runID, startedAt)
	metrics.RecordJobDuration(time.Since(startedAt).Seconds())
	if err != nil || outcome.RunMeta.Status != entity.RunStatusOK {
		metrics.RecordJobRun("failure")
	} else {
		metrics.RecordJobRun("success")
		metrics.RecordEventsSelected(len(outcome.Events))
		metrics.RecordLastSuccess()
	}
	logRunOutcome(logger, outcome)

	if _, err := runner.WriteSchedulerMeta(outputDir, true, schedulerDailyTime, outcome.RunMeta.Status, time.Now()); err != nil {
		logger.Warn("failed to refresh scheduler meta", slog.Any("error", err))
	}
}

// serveMetrics exposes the Prometheus registry until ctx is cancelled.
func serveMetrics(ctx context.Context, logger *slog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server started", slog.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", slog.Any("error", err))
	}
}
