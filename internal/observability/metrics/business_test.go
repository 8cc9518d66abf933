package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordFeedFetch(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		duration time.Duration
		items    int
	}{
		{
			name:     "rss fetch with items",
			platform: "RSS",
			duration: 250 * time.Millisecond,
			items:    12,
		},
		{
			name:     "webflow fetch with no items",
			platform: "Webflow",
			duration: 1200 * time.Millisecond,
			items:    0,
		},
		{
			name:     "empty platform label",
			platform: "",
			duration: time.Millisecond,
			items:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFeedFetch(tt.platform, tt.duration, tt.items)
			})
		})
	}
}

func TestRecordFeedFetchError(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordFeedFetchError("RSS")
		RecordFeedFetchError("NextJS")
	})
}

func TestUpdatePoolSize(t *testing.T) {
	tests := []struct {
		name  string
		total int
	}{
		{name: "healthy pool", total: 1500},
		{name: "degraded pool", total: 400},
		{name: "empty pool", total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdatePoolSize(tt.total)
			})
		})
	}
}

func TestRecordContentFetchOutcomes(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordContentFetchSuccess(800*time.Millisecond, 4096)
		RecordContentFetchFailed(15 * time.Second)
		RecordContentFetchSkipped()
	})
}

func TestRecordGateResult(t *testing.T) {
	tests := []struct {
		name   string
		gate   string
		result string
	}{
		{name: "hard gate pass", gate: "pool_sufficiency_hard", result: "PASS"},
		{name: "hard gate fail", gate: "exec_text_ban_scan", result: "FAIL"},
		{name: "soft gate warn", gate: "fulltext_hydrator", result: "WARN-OK"},
		{name: "skipped gate", gate: "pptx_media_audit", result: "SKIP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordGateResult(tt.gate, tt.result)
			})
		})
	}
}

func TestUpdateSelection(t *testing.T) {
	assert.NotPanics(t, func() {
		UpdateSelection(6, map[string]int{
			"product":  2,
			"tech":     2,
			"business": 2,
		})
	})

	assert.NotPanics(t, func() {
		UpdateSelection(0, nil)
	})
}

func TestRecordRewriteOutcome(t *testing.T) {
	for _, outcome := range []string{"applied", "skeletonized", "failed"} {
		assert.NotPanics(t, func() {
			RecordRewriteOutcome(outcome)
		})
	}
}
