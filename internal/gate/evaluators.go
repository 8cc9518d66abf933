package gate

import (
	"strings"

	"briefline/internal/domain/entity"
	"briefline/internal/usecase/rewrite"
)

// Thresholds bundles every numeric floor the gate evaluators check against,
// so a profile (daily/demo/brief) can tune them without touching the
// evaluator logic itself.
type Thresholds struct {
	MinFinalSelectedEvents int
	MinStrictFulltextOK    int
	MinAISelectedEvents    int
	MinFaithfulApplied     int
	MinQuoteCoverageRatio  float64
	MinAvgZhRatio          float64
	MinZhRatioFloor        float64
	MinAnchorCoverageRatio float64
	MinFulltextCoverage    float64
	MinLongformCount       int
}

// DefaultThresholds carries the production floors: six selected events, four
// of them strictly fulltext-backed, ninety-percent quote and anchor
// coverage.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinFinalSelectedEvents: 6,
		MinStrictFulltextOK:    4,
		MinAISelectedEvents:    6,
		MinFaithfulApplied:     6,
		MinQuoteCoverageRatio:  0.9,
		MinAvgZhRatio:          0.35,
		MinZhRatioFloor:        0.20,
		MinAnchorCoverageRatio: 0.9,
		MinFulltextCoverage:    0.6,
		MinLongformCount:       2,
	}
}

// ThresholdsFor tunes the default floors per mode: brief mode runs a shorter
// deck, so the event floor drops to five while everything else keeps its
// stricter factual-density setting.
func ThresholdsFor(mode entity.RunMode) Thresholds {
	t := DefaultThresholds()
	if mode == entity.ModeBrief {
		t.MinFinalSelectedEvents = 5
		t.MinAISelectedEvents = 5
		t.MinFaithfulApplied = 5
	}
	return t
}

func verdict(ok bool) entity.GateResult {
	if ok {
		return entity.GatePass
	}
	return entity.GateFail
}

// EvalPoolSufficiency backs POOL_SUFFICIENCY_HARD: there must be enough
// selected events, and enough of them backed by real fulltext, to build a
// credible brief.
func EvalPoolSufficiency(finalSelected, strictFulltextOK int, t Thresholds) entity.PoolSufficiencyMeta {
	ok := finalSelected >= t.MinFinalSelectedEvents && strictFulltextOK >= t.MinStrictFulltextOK
	return entity.PoolSufficiencyMeta{
		Result:              verdict(ok),
		FinalSelectedEvents: finalSelected,
		StrictFulltextOK:    strictFulltextOK,
	}
}

// EvalShowcaseReady backs SHOWCASE_READY_HARD: the deck must carry enough
// AI-selected events, unless a demo run padded a thin pool — demo
// supplementation is the one sanctioned substitute.
func EvalShowcaseReady(aiSelected int, demoSupplemented bool, mode entity.RunMode, t Thresholds) entity.ShowcaseReadyMeta {
	ok := aiSelected >= t.MinAISelectedEvents || (demoSupplemented && mode == entity.ModeDemo)
	return entity.ShowcaseReadyMeta{
		Result:           verdict(ok),
		AISelectedEvents: aiSelected,
		DemoSupplemented: demoSupplemented,
	}
}

// EvalExecNewsQuality backs EXEC_NEWS_QUALITY_HARD: every checked event must
// have both Q1 and Q2 populated (non-blank). The quotes inside them are not
// inspected here: their anchors, length and word count are not checked.
func EvalExecNewsQuality(events []entity.Event) entity.ExecNewsQualityMeta {
	var failed []string
	for _, e := range events {
		if strings.TrimSpace(e.Q1) == "" || strings.TrimSpace(e.Q2) == "" {
			failed = append(failed, e.ItemID)
		}
	}
	return entity.ExecNewsQualityMeta{
		Result:        verdict(len(failed) == 0),
		EventsChecked: len(events),
		EventsFailed:  failed,
	}
}

// EvalExecZhNarrative backs EXEC_ZH_NARRATIVE_WITH_QUOTE_HARD: every event's
// Validate must pass against its own fulltext (anchors verbatim, quotes
// corner-bracketed).
func EvalExecZhNarrative(events []entity.Event, fulltextByID map[string]string) entity.ExecZhNarrativeMeta {
	var failures []string
	for _, e := range events {
		ev := e
		if err := ev.Validate(fulltextByID[e.ItemID]); err != nil {
			failures = append(failures, e.ItemID)
		}
	}
	return entity.ExecZhNarrativeMeta{
		Result:   verdict(len(failures) == 0),
		AllPass:  len(failures) == 0,
		Failures: failures,
	}
}

// EvalFaithfulZhNews backs FAITHFUL_ZH_NEWS: enough events must have been
// successfully rewritten, with enough quote coverage and zero ellipsis
// hits, to call the brief faithful.
func EvalFaithfulZhNews(events []entity.Event, effectiveMin int, minCoverage float64) entity.FaithfulZhNewsMeta {
	applied := 0
	withQuote := 0
	ellipsisTotal := 0
	quoteTokens := 0
	var sumZh, minZh float64
	minZh = 1.0
	var sampleQ1, sampleQ2, sampleProof string
	var sampleAnchors []string

	for i, e := range events {
		if e.Q1 == "" && e.Proof == "" {
			continue
		}
		applied++
		if e.Q1 != "" && e.Q2 != "" {
			withQuote++
		}
		ellipsisTotal += rewrite.CountEllipsisHits(e.Q1 + e.Q2 + e.Q3 + e.Proof)
		quoteTokens += strings.Count(e.Q1+e.Q2+e.Q3, "「")
		sumZh += e.ZhRatio
		if e.ZhRatio < minZh {
			minZh = e.ZhRatio
		}
		if i == 0 {
			sampleQ1, sampleQ2, sampleProof = e.Q1, e.Q2, e.Proof
			if len(e.Anchors) > 3 {
				sampleAnchors = e.Anchors[:3]
			} else {
				sampleAnchors = e.Anchors
			}
		}
	}

	avgZh := 0.0
	quoteCoverage := 0.0
	if applied > 0 {
		avgZh = sumZh / float64(applied)
		quoteCoverage = float64(withQuote) / float64(applied)
	} else {
		minZh = 0
	}

	ok := applied >= effectiveMin && ellipsisTotal == 0 && quoteCoverage >= minCoverage
	return entity.FaithfulZhNewsMeta{
		Result:             verdict(ok),
		AppliedCount:       applied,
		EffectiveMin:       effectiveMin,
		QuoteCoverageRatio: quoteCoverage,
		EllipsisHitsTotal:  ellipsisTotal,
		AvgZhRatio:         avgZh,
		MinZhRatio:         minZh,
		SampleQ1:           sampleQ1,
		SampleQ2:           sampleQ2,
		SampleProof:        sampleProof,
		SampleAnchorsTop3:  sampleAnchors,
		QuoteTokensFound:   quoteTokens,
	}
}

// EvalNewsroomZh backs NEWSROOM_ZH: the brief-wide average and minimum
// zh_ratio must clear the newsroom floor.
func EvalNewsroomZh(events []entity.Event, t Thresholds) entity.NewsroomZhMeta {
	if len(events) == 0 {
		return entity.NewsroomZhMeta{Result: entity.GateFail}
	}
	var sum float64
	min := 1.0
	for _, e := range events {
		sum += e.ZhRatio
		if e.ZhRatio < min {
			min = e.ZhRatio
		}
	}
	avg := sum / float64(len(events))
	ok := avg >= t.MinAvgZhRatio && min >= t.MinZhRatioFloor
	return entity.NewsroomZhMeta{Result: verdict(ok), AvgZhRatio: avg, MinZhRatio: min}
}

// EvalNewsAnchorGate backs NEWS_ANCHOR_GATE: almost every event must carry
// at least one anchor.
func EvalNewsAnchorGate(events []entity.Event, t Thresholds) entity.NewsAnchorMeta {
	if len(events) == 0 {
		return entity.NewsAnchorMeta{Result: entity.GateFail}
	}
	missing := 0
	for _, e := range events {
		if len(e.Anchors) == 0 {
			missing++
		}
	}
	coverage := float64(len(events)-missing) / float64(len(events))
	return entity.NewsAnchorMeta{
		Result:              verdict(coverage >= t.MinAnchorCoverageRatio),
		AnchorCoverageRatio: coverage,
		AnchorMissingCount:  missing,
	}
}

// EvalExecDeliverable backs EXEC_DELIVERABLE_DOCX_PPTX_HARD: both rendered
// deliverables must exist and be non-empty.
func EvalExecDeliverable(pptxExists, docxExists bool, pptxSize, docxSize int64) entity.ExecDeliverableMeta {
	pptxNonZero := pptxExists && pptxSize > 0
	docxNonZero := docxExists && docxSize > 0
	return entity.ExecDeliverableMeta{
		Result:      verdict(pptxNonZero && docxNonZero),
		PptxExists:  pptxExists,
		DocxExists:  docxExists,
		PptxNonZero: pptxNonZero,
		DocxNonZero: docxNonZero,
	}
}

// EvalExecTextBanScan backs EXEC_TEXT_BAN_SCAN: rendered deliverable text
// must carry zero banned ellipsis/hollow-CTA phrases.
func EvalExecTextBanScan(renderedText string) entity.ExecTextBanScanMeta {
	hits := rewrite.CountEllipsisHits(renderedText)
	firstPhrase := ""
	if rewrite.ContainsGenericPhrase(renderedText) {
		hits++
		firstPhrase = "generic_phrase"
	}
	return entity.ExecTextBanScanMeta{
		Result:         verdict(hits == 0),
		HitsTotal:      hits,
		FirstHitPhrase: firstPhrase,
	}
}

// EvalFulltextHydration backs the soft FULLTEXT_HYDRATION gate: warns, never
// fails the run, when coverage falls short.
func EvalFulltextHydration(okCount, attempted int, t Thresholds) entity.FulltextHydrationMeta {
	coverage := 0.0
	if attempted > 0 {
		coverage = float64(okCount) / float64(attempted)
	}
	result := entity.GatePass
	if coverage < t.MinFulltextCoverage {
		result = entity.GateWarnOK
	}
	return entity.FulltextHydrationMeta{Result: result, CoverageRatio: coverage, FulltextOKCount: okCount, AttemptedCount: attempted}
}

// EvalLongformEvidence backs the soft LONGFORM_EVIDENCE gate.
func EvalLongformEvidence(longformCount int, t Thresholds) entity.LongformEvidenceMeta {
	result := entity.GatePass
	if longformCount < t.MinLongformCount {
		result = entity.GateWarnOK
	}
	return entity.LongformEvidenceMeta{Result: result, LongformCount: longformCount}
}

// EvalGenericPhraseAudit backs the soft GENERIC_PHRASE_AUDIT gate.
func EvalGenericPhraseAudit(events []entity.Event) entity.GenericPhraseAuditMeta {
	hits := 0
	for _, e := range events {
		for _, s := range []string{e.Q1, e.Q2, e.Q3, e.Proof} {
			if rewrite.ContainsGenericPhrase(s) {
				hits++
			}
		}
	}
	result := entity.GatePass
	if hits > 0 {
		result = entity.GateWarnOK
	}
	return entity.GenericPhraseAuditMeta{Result: result, HitsTotal: hits}
}

// EvalPptxMediaAudit backs the soft PPTX_MEDIA_AUDIT gate.
func EvalPptxMediaAudit(mediaSlots, mediaFilled int) entity.PptxMediaAuditMeta {
	result := entity.GatePass
	if mediaSlots > 0 && mediaFilled < mediaSlots {
		result = entity.GateWarnOK
	}
	return entity.PptxMediaAuditMeta{Result: result, MediaSlots: mediaSlots, MediaFilled: mediaFilled}
}

// EvalSupplyResilience backs the soft SUPPLY_RESILIENCE gate: using the
// snapshot fallback always warns, it never fails the run outright.
func EvalSupplyResilience(fallbackUsed bool, snapshotAge string) entity.SupplyResilienceMeta {
	result := entity.GatePass
	if fallbackUsed {
		result = entity.GateWarnOK
	}
	return entity.SupplyResilienceMeta{Result: result, FallbackUsed: fallbackUsed, SnapshotAge: snapshotAge}
}

// EvalZ0Quality backs Z0_POOL_QUALITY_HARD: the (possibly fallback-restored)
// pool must be big enough and carry enough recent high-frontier items to be
// worth briefing from at all.
func EvalZ0Quality(coll entity.CollectionMeta, minItems, minFrontier int, degradedAllowed bool) entity.Z0QualityMeta {
	ok := coll.TotalItems >= minItems && coll.FrontierGE85_72h >= minFrontier
	return entity.Z0QualityMeta{
		Result:            verdict(ok),
		TotalItems:        coll.TotalItems,
		Frontier85_72h:    coll.FrontierGE85_72h,
		MinTotalItems:     minItems,
		MinFrontier85_72h: minFrontier,
		DegradedAllowed:   degradedAllowed,
	}
}

// EvalArchiveHead backs ARCHIVE_HEAD_MATCH: the source revision observed at
// run start must still be the revision at archive time, so a delivery
// directory named <run_id>_<head> can never lie about what built it.
func EvalArchiveHead(headAtStart, headAtFinish string) entity.ArchiveHeadMeta {
	ok := headAtStart != "" && headAtStart == headAtFinish
	return entity.ArchiveHeadMeta{
		Result:       verdict(ok),
		HeadAtStart:  headAtStart,
		HeadAtFinish: headAtFinish,
	}
}
