package entity

import "time"

// CollectionMeta is the report the Collector writes alongside latest.jsonl,
// recording pool-size and frontier-quality signals the hard gates consume.
type CollectionMeta struct {
	TotalItems           int            `json:"total_items"`
	FrontierGE70         int            `json:"frontier_ge_70"`
	FrontierGE85         int            `json:"frontier_ge_85"`
	FrontierGE70_72h     int            `json:"frontier_ge_70_72h"`
	FrontierGE85_72h     int            `json:"frontier_ge_85_72h"`
	ByPlatform           map[string]int `json:"by_platform"`
	FrontierHistogram    map[string]int `json:"frontier_histogram"`     // bucket label (e.g. "0-9", "10-19", ...) -> count
	PublishedAtSrcCounts map[string]int `json:"published_at_source_counts"` // "item"/"feed"/"html_meta"/"now_fallback" -> count
	CollectedAt          time.Time      `json:"collected_at"`
}

// Validate checks the non-negativity of the counters a CollectionMeta reports.
func (c *CollectionMeta) Validate() error {
	if c.TotalItems < 0 {
		return &ValidationError{Field: "total_items", Message: "must be non-negative"}
	}
	if c.FrontierGE85 > c.FrontierGE70 {
		return &ValidationError{Field: "frontier_ge_85", Message: "frontier_ge_85 cannot exceed frontier_ge_70"}
	}
	return nil
}

// FilterSummary reports the effect of the Dedupe & Filter stage. KeptTotal is
// the post-event-gate count and is the authoritative input to scoring;
// AfterFilterTotal is retained only as a deprecated alias for older
// verifiers and must not be relied upon by new code.
type FilterSummary struct {
	DedupTotal          int               `json:"dedup_total"`
	AfterFilterTotal    int               `json:"after_filter_total"` // deprecated: prefer KeptTotal
	AfterFilterTotalRaw int               `json:"after_filter_total_raw"`
	KeptTotal           int               `json:"kept_total"`
	EventGatePassTotal  int               `json:"event_gate_pass_total"`
	TopDropReasons      []DropReasonCount `json:"top_drop_reasons"`
}

// DropReasonCount pairs a filter-stage drop reason with how many items it
// eliminated, in the order the filter stages ran.
type DropReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// Validate checks that KeptTotal never exceeds DedupTotal.
func (f *FilterSummary) Validate() error {
	if f.KeptTotal > f.DedupTotal {
		return &ValidationError{Field: "kept_total", Message: "kept_total cannot exceed dedup_total"}
	}
	return nil
}

// SupplyFallbackMeta records whether the Supply Fallback stage restored a
// prior snapshot in place of a degraded live collection.
type SupplyFallbackMeta struct {
	FallbackUsed  bool   `json:"fallback_used"`
	Reason        string `json:"reason,omitempty"`
	SnapshotAge   string `json:"snapshot_age,omitempty"`
	SnapshotRunID string `json:"snapshot_run_id,omitempty"`
}

// SchedulerMeta is the machine-readable record of the OS-side scheduled
// trigger's installation state, written by the installer (out of scope) and
// read by verifiers (in scope).
type SchedulerMeta struct {
	Installed        bool      `json:"installed"`
	Timezone         string    `json:"timezone"`
	DailyTime        string    `json:"daily_time"` // "HH:MM" in Timezone
	TaskName         string    `json:"task_name"`
	NextRunAtBeijing time.Time `json:"next_run_at_beijing"`
	LastRunStatus    RunStatus `json:"last_run_status,omitempty"`
}
