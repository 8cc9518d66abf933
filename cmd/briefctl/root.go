package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"briefline/internal/config"
	"briefline/internal/domain/entity"
	"briefline/internal/gate"
	"briefline/internal/infra/fetcher"
	"briefline/internal/infra/llmassist"
	"briefline/internal/infra/scraper"
	"briefline/internal/observability/logging"
	"briefline/internal/resilience/circuitbreaker"
	"briefline/internal/usecase/collect"
	"briefline/internal/usecase/dedupe"
	"briefline/internal/usecase/hydrate"
	"briefline/internal/usecase/orchestrate"
	"briefline/internal/usecase/rewrite"
	"briefline/internal/usecase/score"
	selectpkg "briefline/internal/usecase/select"
	"briefline/internal/usecase/supply"
)

var (
	outputDir string
	dataDir   string
)

var rootCmd = &cobra.Command{
	Use:           "briefctl",
	Short:         "Daily executive-briefing pipeline for AI/technology news",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "outputs", "directory for canonical deliverables and meta files")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "directory for the Z0 pool snapshot and pre-run artifact snapshots")

	rootCmd.AddCommand(runCmd, verifyCmd, schedulerCmd, serveCmd)
}

// Execute runs the CLI and maps the result to a process exit code: 0 for OK,
// 1 for a FAIL verdict or any other error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("briefctl failed", slog.Any("error", err))
		return 1
	}
	return 0
}

func newLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// buildRunConfig assembles one run's stage policies from the environment,
// the source catalog, and the mode's gate thresholds.
func buildRunConfig(logger *slog.Logger, mode entity.RunMode) (orchestrate.Config, map[string]collect.FeedFetcher, hydrate.ContentFetcher, rewrite.Assistant) {
	env := config.LoadPipelineEnv(logger)

	sources, warnings, err := config.LoadSources(env.SourcesFile)
	if err != nil {
		logger.Warn("source catalog unavailable, collecting nothing", slog.String("path", env.SourcesFile), slog.Any("error", err))
	}
	for _, w := range warnings {
		logger.Warn("source catalog entry skipped", slog.String("warning", w))
	}

	client := &http.Client{
		Timeout:   30 * time.Second,
		Transport: circuitbreaker.NewTransport(circuitbreaker.New(circuitbreaker.FeedFetchConfig()), nil),
	}
	fetchers := scraper.NewScraperFactory(client).CreateScrapers()
	fetchers["RSS"] = scraper.NewRSSFetcher(client)

	contentFetcher := fetcher.NewReadabilityFetcher(fetcher.DefaultConfig())

	var assistant rewrite.Assistant
	llmCfg := llmassist.LoadConfigFromEnv(os.Getenv)
	if llmCfg.Provider == "openai_compatible" {
		assistant = llmassist.NewOpenAICompatible(llmCfg)
	}

	selection := selectpkg.DefaultPolicy(mode)
	selection.MinEvents = env.MinEvents
	selection.MinPerBucket[entity.BucketProduct] = env.MinProduct
	selection.MinPerBucket[entity.BucketTech] = env.MinTech
	selection.MinPerBucket[entity.BucketBusiness] = env.MinBusiness

	scorePolicy := score.DefaultPolicy()
	dedupePolicy := dedupe.DefaultPolicy()
	if env.RunProfile == "calibration" {
		// Calibration runs trade precision for recall so threshold tuning
		// sees the items production would have dropped.
		scorePolicy.MinScore -= 1.0
		dedupePolicy.MinBodyLen /= 2
	}

	thresholds := gate.ThresholdsFor(mode)
	if mode != entity.ModeBrief {
		thresholds.MinFinalSelectedEvents = env.MinEvents
		// SHOWCASE_READY tracks the same deck floor: every selected event
		// must be AI-selected for the deck to count as showcase ready.
		thresholds.MinAISelectedEvents = env.MinEvents
	}

	cfg := orchestrate.Config{
		Mode:               mode,
		Sources:            sources,
		DedupePolicy:       dedupePolicy,
		ScorePolicy:        scorePolicy,
		SelectionPolicy:    selection,
		HydratePolicy:      hydrate.DefaultPolicy(),
		GateThresholds:     thresholds,
		FallbackBelowItems: supply.MinTotalItems,
		PoolFloor:          env.MinTotalItems,
		FrontierFloor:      env.EffectiveFrontierFloor(),
		DegradedAllowed:    env.AllowDegraded,
		OutputDir:          outputDir,
		DataDir:            dataDir,
	}
	return cfg, fetchers, contentFetcher, assistant
}

func parseMode(s string) (entity.RunMode, bool) {
	switch entity.RunMode(s) {
	case entity.ModeManual, entity.ModeDaily, entity.ModeDemo, entity.ModeBrief:
		return entity.RunMode(s), true
	}
	return "", false
}
