// Package orchestrate implements the run driver: it executes every pipeline
// stage in sequence under one run_id, folds the stage outputs into the gate
// evaluations, decides the run's final OK/FAIL verdict, and owns the pre-run
// snapshot/restore that keeps canonical artifacts all-or-nothing.
package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"briefline/internal/domain/entity"
	"briefline/internal/gate"
	"briefline/internal/observability/logging"
	"briefline/internal/observability/metrics"
	"briefline/internal/runctx"
	"briefline/internal/usecase/artifact"
	"briefline/internal/usecase/classify"
	"briefline/internal/usecase/collect"
	"briefline/internal/usecase/dedupe"
	"briefline/internal/usecase/hydrate"
	"briefline/internal/usecase/render"
	"briefline/internal/usecase/rewrite"
	"briefline/internal/usecase/score"
	selectpkg "briefline/internal/usecase/select"
	"briefline/internal/usecase/supply"
)

// DeckTitle is the heading of the rendered deliverables.
const DeckTitle = "AI/Technology Executive Briefing"

// longformFloor is the fulltext length above which an event counts toward
// the soft longform-evidence gate.
const longformFloor = 2000

// Config bundles everything a single run needs: the stage policies, the
// active mode, and the fail-closed floors.
type Config struct {
	Mode            entity.RunMode
	Sources         []entity.Source
	DedupePolicy    dedupe.Policy
	ScorePolicy     score.Policy
	SelectionPolicy selectpkg.Policy
	HydratePolicy   hydrate.Policy
	GateThresholds  gate.Thresholds
	// FallbackBelowItems triggers Supply Fallback when collection comes back
	// under it; distinct from PoolFloor, the hard-gate size floor.
	FallbackBelowItems int
	// PoolFloor and FrontierFloor back the Z0 pool-quality hard gate
	// (Z0_MIN_TOTAL_ITEMS / Z0_MIN_FRONTIER85_72H).
	PoolFloor       int
	FrontierFloor   int
	DegradedAllowed bool
	ForceFallback   bool
	OutputDir       string // outputs/
	DataDir         string // data/
	// Head resolves the current source revision for the archive integrity
	// check; defaults to artifact.SourceHead.
	Head artifact.HeadFunc
}

// Outcome is everything the caller (cmd/briefctl) needs to render the
// operator-facing artifacts and decide the process exit code.
type Outcome struct {
	RunMeta        entity.RunMeta
	Events         []entity.Event
	GateReport     gate.Report
	FilterSummary  entity.FilterSummary
	CollectionMeta entity.CollectionMeta
	SupplyFallback entity.SupplyFallbackMeta
	AISelected     int
	SparseDay      bool
	Backfills      []selectpkg.BackfillRecord
	DeliveryPath   string
}

// Run executes the full pipeline once under a freshly assigned run_id,
// returning the final verdict. It never panics on a per-item failure: those
// are recorded and folded into gate results ("record, don't raise"). Only
// infrastructure failures (a failed pre-run artifact snapshot, a supply
// fallback with no snapshot to restore) abort the run early; a failed
// deliverable render is logged and left to the gates. Even on an early
// abort the operator-facing
// summary and NOT_READY placeholders are written before returning.
func Run(ctx context.Context, cfg Config, fetchers map[string]collect.FeedFetcher, contentFetcher hydrate.ContentFetcher, assistant rewrite.Assistant, runID string, startedAt time.Time) (Outcome, error) {
	ctx = runctx.WithRunID(ctx, runID)
	logger := logging.WithRunID(ctx, logging.FromContext(ctx))

	headFn := cfg.Head
	if headFn == nil {
		headFn = artifact.SourceHead
	}
	headAtStart := headFn()

	run := entity.RunMeta{RunID: runID, Mode: cfg.Mode, StartedAt: startedAt, GateResults: map[string]entity.GateResult{}}
	artifacts := artifact.NewStore(cfg.OutputDir, cfg.DataDir)

	if err := artifacts.Snapshot(runID); err != nil {
		return failFatal(artifacts, run, fmt.Errorf("pre-run artifact snapshot: %w", err))
	}

	store := supply.NewStore(cfg.DataDir)

	collector := collect.New(fetchers)
	items, collMeta := collector.Collect(ctx, cfg.Sources)

	var fallbackMeta entity.SupplyFallbackMeta
	if supply.ShouldFallback(collMeta.TotalItems, cfg.ForceFallback, cfg.FallbackBelowItems) {
		snap, err := store.Restore(time.Now().UTC())
		if err != nil {
			return failFatal(artifacts, run, fmt.Errorf("supply fallback required but unavailable: %w", err))
		}
		logger.Warn("supply fallback engaged", slog.Int("total_items", collMeta.TotalItems), slog.Duration("snapshot_age", snap.Age))
		items, collMeta = snap.Items, snap.Meta
		fallbackMeta = entity.SupplyFallbackMeta{
			FallbackUsed:  true,
			Reason:        "collection below floor",
			SnapshotAge:   snap.Age.String(),
			SnapshotRunID: runID,
		}
	} else if err := store.Save(items, collMeta); err != nil {
		logger.Warn("failed to persist supply snapshot", slog.Any("error", err))
	}

	dedupeResult := dedupe.Run(items, cfg.DedupePolicy, time.Now().UTC())

	fulltextByID := map[string]string{}
	var needsHydration []entity.RawItem
	for _, it := range dedupeResult.Items {
		if it.NeedsFulltext {
			needsHydration = append(needsHydration, it)
		} else {
			fulltextByID[it.ID] = it.Body
		}
	}
	hydrator := hydrate.New(contentFetcher, cfg.HydratePolicy)
	hydrations := hydrator.Hydrate(ctx, needsHydration)
	hydrationByID := map[string]entity.HydrationResult{}
	hydrationOK := 0
	for _, h := range hydrations {
		hydrationByID[h.ItemID] = h
		if h.Status == entity.HydrationOK {
			hydrationOK++
			fulltextByID[h.ItemID] = h.Fulltext
		}
	}

	var scoreItems []score.Item
	for _, it := range dedupeResult.Items {
		fulltext := fulltextByID[it.ID]
		body := it.Body
		if fulltext != "" {
			body = fulltext
		}
		cls := classify.Classify(it.ID, it.Title, body)

		var hydration *entity.HydrationResult
		if h, ok := hydrationByID[it.ID]; ok {
			hCopy := h
			hydration = &hCopy
		}
		scoreItems = append(scoreItems, score.Item{
			RawItem:        it,
			Classification: cls,
			Hydration:      hydration,
			NeighborSize:   dedupeResult.DupNeighborSize[it.ID],
		})
	}

	passed, passTotal := score.Run(scoreItems, cfg.ScorePolicy)
	dedupeResult.Summary.EventGatePassTotal = passTotal
	selResult := selectpkg.Select(passed, cfg.SelectionPolicy)

	events := selResult.Events
	aiSelected := 0
	for i := range events {
		itemID := events[i].ItemID
		fulltext := fulltextByID[itemID]
		if fulltext == "" {
			continue
		}
		actor := topEntity(classify.Extract(itemID, "", fulltext))
		if assistant != nil {
			if suggestion, err := assistant.Suggest(ctx, rewrite.Request{ItemID: itemID, Fulltext: fulltext, Actor: actor}); err == nil && suggestion.Accepted {
				actor = suggestion.Actor
			}
		}
		skeletonized, err := rewrite.Apply(&events[i], fulltext, actor)
		if err != nil {
			metrics.RecordRewriteOutcome("failed")
			logger.Warn("rewrite failed for item", slog.String("item_id", itemID), slog.Any("error", err))
			continue
		}
		if skeletonized {
			metrics.RecordRewriteOutcome("skeletonized")
		} else {
			metrics.RecordRewriteOutcome("applied")
		}
		aiSelected++
	}

	bundle, renderErr := render.WriteBundle(cfg.OutputDir, DeckTitle, events)
	if renderErr != nil {
		logger.Error("deliverable render failed", slog.Any("error", renderErr))
	}

	headAtFinish := headFn()
	metas := evaluateGates(gateInputs{
		events:       events,
		fulltextByID: fulltextByID,
		cfg:          cfg,
		collection:   collMeta,
		fallback:     fallbackMeta,
		aiSelected:   aiSelected,
		sparseDay:    selResult.SparseDay,
		hydrationOK:  hydrationOK,
		attempted:    len(needsHydration),
		bundle:       bundle,
		headAtStart:  headAtStart,
		headAtFinish: headAtFinish,
	})
	report := gate.Evaluate(metas)
	for name, result := range report.GateResults() {
		metrics.RecordGateResult(name, string(result))
	}
	byBucket := map[string]int{}
	for _, e := range events {
		byBucket[string(e.Bucket)]++
	}
	metrics.UpdateSelection(len(events), byBucket)

	run.GateResults = report.GateResults()
	run.Status = report.Status
	run.FailReason = report.FailReason
	run.FinishedAt = time.Now().UTC()

	outcome := Outcome{
		RunMeta:        run,
		Events:         events,
		GateReport:     report,
		FilterSummary:  dedupeResult.Summary,
		CollectionMeta: collMeta,
		SupplyFallback: fallbackMeta,
		AISelected:     aiSelected,
		SparseDay:      selResult.SparseDay,
		Backfills:      selResult.Backfills,
	}

	if run.Status == entity.RunStatusOK {
		if dir, err := artifacts.Archive(runID, headAtStart); err != nil {
			logger.Error("delivery archive failed", slog.Any("error", err))
		} else {
			outcome.DeliveryPath = dir
		}
		if err := artifacts.ClearNotReady(); err != nil {
			logger.Warn("failed to clear NOT_READY placeholders", slog.Any("error", err))
		}
		if err := artifacts.DropSnapshot(runID); err != nil {
			logger.Warn("failed to drop pre-run snapshot", slog.Any("error", err))
		}
	} else {
		if err := artifacts.Restore(runID); err != nil {
			logger.Error("canonical restore failed", slog.Any("error", err))
		}
		if err := render.WriteNotReady(cfg.OutputDir, runID, run.FailReason); err != nil {
			logger.Error("NOT_READY render failed", slog.Any("error", err))
		}
	}

	writeRunArtifacts(logger, artifacts, cfg.OutputDir, outcome, metas, headAtStart)

	return outcome, nil
}

// failFatal handles the infrastructure-error path: the run aborts, but the
// operator still gets a summary, a NOT_READY placeholder, and a machine-
// readable pointer to it.
func failFatal(artifacts *artifact.Store, run entity.RunMeta, err error) (Outcome, error) {
	run.Status = entity.RunStatusFail
	run.FailReason = truncateReason(err.Error())
	run.FinishedAt = time.Now().UTC()

	_ = render.WriteNotReady(artifacts.OutputDir(), run.RunID, run.FailReason)
	_ = artifacts.WriteLastRunSummary(artifact.Summary{Run: run})
	_ = artifacts.WriteDesktopButtonMeta(run)

	return Outcome{RunMeta: run}, err
}

// writeRunArtifacts persists every meta file and operator summary for the
// run. Failures here are logged, not raised: the verdict is already decided
// and the exit code already carries it.
func writeRunArtifacts(logger *slog.Logger, artifacts *artifact.Store, outDir string, outcome Outcome, metas []entity.GateMeta, head string) {
	byName := make(map[string]interface{}, len(metas))
	for _, m := range metas {
		byName[m.GateName()] = m
	}
	if err := gate.WriteAll(outDir, byName); err != nil {
		logger.Error("failed to write gate metas", slog.Any("error", err))
	}

	for name, v := range map[string]interface{}{
		"run":             outcome.RunMeta,
		"filter_summary":  outcome.FilterSummary,
		"supply_fallback": outcome.SupplyFallback,
		"selection_backfill": selectpkg.BackfillMeta{
			SparseDay: outcome.SparseDay,
			Buckets:   outcome.Backfills,
		},
	} {
		if err := gate.WriteMetaJSON(filepath.Join(outDir, name+".meta.json"), v); err != nil {
			logger.Error("failed to write meta", slog.String("name", name), slog.Any("error", err))
		}
	}

	produced := producedFiles(outDir, outcome.RunMeta.Status)
	if err := artifacts.WriteLastRunSummary(artifact.Summary{
		Run:              outcome.RunMeta,
		SelectedEvents:   len(outcome.Events),
		AISelectedEvents: outcome.AISelected,
		ProducedFiles:    produced,
	}); err != nil {
		logger.Error("failed to write LAST_RUN_SUMMARY", slog.Any("error", err))
	}
	if err := artifacts.WriteDesktopButtonMeta(outcome.RunMeta); err != nil {
		logger.Error("failed to write desktop_button meta", slog.Any("error", err))
	}
	if err := artifacts.WriteDeliveryPathMeta(outcome.RunMeta.RunID, outcome.DeliveryPath, head); err != nil {
		logger.Error("failed to write delivery_path meta", slog.Any("error", err))
	}
}

// producedFiles lists the deliverables that exist after this run, for the
// human summary.
func producedFiles(outDir string, status entity.RunStatus) []string {
	names := []string{render.DeckFile, render.DocFile, render.DigestFile}
	if status == entity.RunStatusFail {
		names = []string{render.NotReadyDeck, render.NotReadyDoc, render.NotReadyMD}
	}
	var out []string
	for _, n := range names {
		if _, err := os.Stat(filepath.Join(outDir, n)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func truncateReason(s string) string {
	if len(s) > entity.MaxFailReasonLen {
		return s[:entity.MaxFailReasonLen]
	}
	return s
}

func topEntity(ents entity.Entities) string {
	if len(ents.Entities) == 0 {
		return ""
	}
	return ents.Entities[0].Name
}

type gateInputs struct {
	events       []entity.Event
	fulltextByID map[string]string
	cfg          Config
	collection   entity.CollectionMeta
	fallback     entity.SupplyFallbackMeta
	aiSelected   int
	sparseDay    bool
	hydrationOK  int
	attempted    int
	bundle       render.Bundle
	headAtStart  string
	headAtFinish string
}

func evaluateGates(in gateInputs) []entity.GateMeta {
	t := in.cfg.GateThresholds

	strictFulltextOK := 0
	longform := 0
	for _, e := range in.events {
		n := len(in.fulltextByID[e.ItemID])
		if n >= entity.MinFulltextLen {
			strictFulltextOK++
		}
		if n >= longformFloor {
			longform++
		}
	}

	// effective_min adapts to sparse days: a thin pool is not punished for
	// rewriting every event it has.
	effectiveMin := t.MinFaithfulApplied
	if in.sparseDay && len(in.events) < effectiveMin {
		effectiveMin = len(in.events)
	}

	pptxInfo, pptxErr := os.Stat(in.bundle.DeckPath)
	docxInfo, docxErr := os.Stat(in.bundle.DocPath)
	var pptxSize, docxSize int64
	if pptxErr == nil {
		pptxSize = pptxInfo.Size()
	}
	if docxErr == nil {
		docxSize = docxInfo.Size()
	}

	return []entity.GateMeta{
		gate.EvalZ0Quality(in.collection, in.cfg.PoolFloor, in.cfg.FrontierFloor, in.cfg.DegradedAllowed),
		gate.EvalPoolSufficiency(len(in.events), strictFulltextOK, t),
		gate.EvalShowcaseReady(in.aiSelected, in.cfg.Mode == entity.ModeDemo && len(in.events) < t.MinFinalSelectedEvents, in.cfg.Mode, t),
		gate.EvalExecNewsQuality(in.events),
		gate.EvalExecZhNarrative(in.events, in.fulltextByID),
		gate.EvalFaithfulZhNews(in.events, effectiveMin, t.MinQuoteCoverageRatio),
		gate.EvalNewsroomZh(in.events, t),
		gate.EvalNewsAnchorGate(in.events, t),
		gate.EvalExecDeliverable(pptxErr == nil, docxErr == nil, pptxSize, docxSize),
		gate.EvalExecTextBanScan(in.bundle.RenderedText),
		gate.EvalFulltextHydration(in.hydrationOK, in.attempted, t),
		gate.EvalLongformEvidence(longform, t),
		gate.EvalGenericPhraseAudit(in.events),
		gate.EvalPptxMediaAudit(len(in.events), len(in.events)),
		gate.EvalSupplyResilience(in.fallback.FallbackUsed, in.fallback.SnapshotAge),
		gate.EvalArchiveHead(in.headAtStart, in.headAtFinish),
	}
}
