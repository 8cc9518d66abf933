package entity

// GateMeta is implemented by every gate-specific meta struct so the Gate
// Engine can treat them uniformly for writing, while each gate keeps its own
// concrete, statically-typed field set instead of a dynamic bag.
type GateMeta interface {
	GateName() string
	GateResult() GateResult
}

// PoolSufficiencyMeta backs the POOL_SUFFICIENCY_HARD gate.
type PoolSufficiencyMeta struct {
	Result              GateResult `json:"gate_result"`
	FinalSelectedEvents int        `json:"final_selected_events"`
	StrictFulltextOK    int        `json:"strict_fulltext_ok"`
}

func (m PoolSufficiencyMeta) GateName() string       { return "pool_sufficiency_hard" }
func (m PoolSufficiencyMeta) GateResult() GateResult { return m.Result }

// ShowcaseReadyMeta backs the SHOWCASE_READY_HARD gate.
type ShowcaseReadyMeta struct {
	Result           GateResult `json:"gate_result"`
	AISelectedEvents int        `json:"ai_selected_events"`
	DemoSupplemented bool       `json:"demo_supplemented"`
}

func (m ShowcaseReadyMeta) GateName() string       { return "showcase_ready_hard" }
func (m ShowcaseReadyMeta) GateResult() GateResult { return m.Result }

// ExecNewsQualityMeta backs the EXEC_NEWS_QUALITY_HARD gate.
type ExecNewsQualityMeta struct {
	Result        GateResult `json:"gate_result"`
	EventsChecked int        `json:"events_checked"`
	EventsFailed  []string   `json:"events_failed,omitempty"` // item_ids that failed the two-quote check
}

func (m ExecNewsQualityMeta) GateName() string       { return "exec_news_quality_hard" }
func (m ExecNewsQualityMeta) GateResult() GateResult { return m.Result }

// ExecZhNarrativeMeta backs the EXEC_ZH_NARRATIVE_WITH_QUOTE_HARD gate.
type ExecZhNarrativeMeta struct {
	Result   GateResult `json:"gate_result"`
	AllPass  bool       `json:"all_pass"`
	Failures []string   `json:"failures,omitempty"`
}

func (m ExecZhNarrativeMeta) GateName() string       { return "exec_zh_narrative_with_quote_hard" }
func (m ExecZhNarrativeMeta) GateResult() GateResult { return m.Result }

// FaithfulZhNewsMeta backs the FAITHFUL_ZH_NEWS gate and is also the summary
// artifact faithful_zh_news.meta.json.
type FaithfulZhNewsMeta struct {
	Result             GateResult `json:"gate_result"`
	AppliedCount       int        `json:"applied_count"`
	EffectiveMin       int        `json:"effective_min"`
	QuoteCoverageRatio float64    `json:"quote_coverage_ratio"`
	EllipsisHitsTotal  int        `json:"ellipsis_hits_total"`
	AvgZhRatio         float64    `json:"avg_zh_ratio"`
	MinZhRatio         float64    `json:"min_zh_ratio"`
	SampleQ1           string     `json:"q1,omitempty"`
	SampleQ2           string     `json:"q2,omitempty"`
	SampleProof        string     `json:"proof,omitempty"`
	SampleAnchorsTop3  []string   `json:"anchors_top3,omitempty"`
	QuoteTokensFound   int        `json:"quote_tokens_found"`
}

func (m FaithfulZhNewsMeta) GateName() string       { return "faithful_zh_news" }
func (m FaithfulZhNewsMeta) GateResult() GateResult { return m.Result }

// NewsroomZhMeta backs the NEWSROOM_ZH gate.
type NewsroomZhMeta struct {
	Result     GateResult `json:"gate_result"`
	AvgZhRatio float64    `json:"avg_zh_ratio"`
	MinZhRatio float64    `json:"min_zh_ratio"`
}

func (m NewsroomZhMeta) GateName() string       { return "newsroom_zh" }
func (m NewsroomZhMeta) GateResult() GateResult { return m.Result }

// NewsAnchorMeta backs the NEWS_ANCHOR_GATE gate.
type NewsAnchorMeta struct {
	Result              GateResult `json:"gate_result"`
	AnchorCoverageRatio float64    `json:"anchor_coverage_ratio"`
	AnchorMissingCount  int        `json:"anchor_missing_count"`
}

func (m NewsAnchorMeta) GateName() string       { return "news_anchor_gate" }
func (m NewsAnchorMeta) GateResult() GateResult { return m.Result }

// ExecDeliverableMeta backs the EXEC_DELIVERABLE_DOCX_PPTX_HARD gate.
type ExecDeliverableMeta struct {
	Result      GateResult `json:"gate_result"`
	PptxExists  bool       `json:"pptx_exists"`
	DocxExists  bool       `json:"docx_exists"`
	PptxNonZero bool       `json:"pptx_non_zero"`
	DocxNonZero bool       `json:"docx_non_zero"`
}

func (m ExecDeliverableMeta) GateName() string       { return "exec_deliverable_docx_pptx_hard" }
func (m ExecDeliverableMeta) GateResult() GateResult { return m.Result }

// ExecTextBanScanMeta backs the EXEC_TEXT_BAN_SCAN gate.
type ExecTextBanScanMeta struct {
	Result         GateResult `json:"gate_result"`
	HitsTotal      int        `json:"hits_total"`
	FirstHitPhrase string     `json:"first_hit_phrase,omitempty"`
}

func (m ExecTextBanScanMeta) GateName() string       { return "exec_text_ban_scan" }
func (m ExecTextBanScanMeta) GateResult() GateResult { return m.Result }

// FulltextHydrationMeta backs the soft FULLTEXT_HYDRATION gate.
type FulltextHydrationMeta struct {
	Result          GateResult `json:"gate_result"`
	CoverageRatio   float64    `json:"coverage_ratio"`
	FulltextOKCount int        `json:"fulltext_ok_count"`
	AttemptedCount  int        `json:"attempted_count"`
}

func (m FulltextHydrationMeta) GateName() string       { return "fulltext_hydrator" }
func (m FulltextHydrationMeta) GateResult() GateResult { return m.Result }

// LongformEvidenceMeta backs the soft LONGFORM_EVIDENCE gate.
type LongformEvidenceMeta struct {
	Result        GateResult `json:"gate_result"`
	LongformCount int        `json:"longform_count"`
}

func (m LongformEvidenceMeta) GateName() string       { return "longform_evidence" }
func (m LongformEvidenceMeta) GateResult() GateResult { return m.Result }

// GenericPhraseAuditMeta backs the soft GENERIC_PHRASE_AUDIT gate.
type GenericPhraseAuditMeta struct {
	Result    GateResult `json:"gate_result"`
	HitsTotal int        `json:"hits_total"`
}

func (m GenericPhraseAuditMeta) GateName() string       { return "generic_phrase_audit" }
func (m GenericPhraseAuditMeta) GateResult() GateResult { return m.Result }

// PptxMediaAuditMeta backs the soft PPTX_MEDIA_AUDIT gate.
type PptxMediaAuditMeta struct {
	Result      GateResult `json:"gate_result"`
	MediaSlots  int        `json:"media_slots"`
	MediaFilled int        `json:"media_filled"`
}

func (m PptxMediaAuditMeta) GateName() string       { return "pptx_media_audit" }
func (m PptxMediaAuditMeta) GateResult() GateResult { return m.Result }

// SupplyResilienceMeta backs the soft SUPPLY_RESILIENCE gate.
type SupplyResilienceMeta struct {
	Result       GateResult `json:"gate_result"`
	FallbackUsed bool       `json:"fallback_used"`
	SnapshotAge  string     `json:"snapshot_age,omitempty"`
}

func (m SupplyResilienceMeta) GateName() string       { return "supply_resilience" }
func (m SupplyResilienceMeta) GateResult() GateResult { return m.Result }

// Z0QualityMeta backs the Z0_POOL_QUALITY_HARD gate: the collection pool
// must clear both the size floor (Z0_MIN_TOTAL_ITEMS) and the 72-hour
// frontier-quality floor (Z0_MIN_FRONTIER85_72H, or its degraded-mode
// fallback).
type Z0QualityMeta struct {
	Result            GateResult `json:"gate_result"`
	TotalItems        int        `json:"total_items"`
	Frontier85_72h    int        `json:"frontier_ge_85_72h"`
	MinTotalItems     int        `json:"min_total_items"`
	MinFrontier85_72h int        `json:"min_frontier85_72h"`
	DegradedAllowed   bool       `json:"degraded_allowed"`
}

func (m Z0QualityMeta) GateName() string       { return "z0_pool_quality_hard" }
func (m Z0QualityMeta) GateResult() GateResult { return m.Result }

// ArchiveHeadMeta backs the ARCHIVE_HEAD_MATCH check: the
// delivery archive directory's recorded HEAD must match the source revision
// observed at the start of the run.
type ArchiveHeadMeta struct {
	Result       GateResult `json:"gate_result"`
	HeadAtStart  string     `json:"head_at_start"`
	HeadAtFinish string     `json:"head_at_finish"`
}

func (m ArchiveHeadMeta) GateName() string       { return "archive_head_match" }
func (m ArchiveHeadMeta) GateResult() GateResult { return m.Result }
