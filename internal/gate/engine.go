// Package gate implements the gate engine: it evaluates the hard and
// soft gates against the stage outputs of a run, decides the run's final
// OK/FAIL verdict, and writes every *.meta.json artifact atomically so a
// reader never observes a partially-written meta file.
package gate

import (
	"briefline/internal/domain/entity"
)

// hardGates lists every gate whose FAIL forces the run's overall status to
// FAIL; everything else is soft and only ever warns.
var hardGates = map[string]bool{
	"pool_sufficiency_hard":               true,
	"showcase_ready_hard":                 true,
	"exec_news_quality_hard":              true,
	"exec_zh_narrative_with_quote_hard":    true,
	"faithful_zh_news":                    true,
	"newsroom_zh":                         true,
	"news_anchor_gate":                    true,
	"exec_deliverable_docx_pptx_hard":      true,
	"exec_text_ban_scan":                  true,
	"archive_head_match":                  true,
	"z0_pool_quality_hard":                true,
}

// IsHard reports whether gateName forces a run FAIL when it fails.
func IsHard(gateName string) bool {
	return hardGates[gateName]
}

// Report is the full set of gate evaluations for one run, keyed by gate
// name, plus the metas needed to render them to disk.
type Report struct {
	Metas  map[string]entity.GateMeta
	Status entity.RunStatus
	// FailReason names the first hard gate FAIL encountered, truncated to
	// entity.MaxFailReasonLen.
	FailReason string
}

// Evaluate folds a set of gate metas into a final run verdict: any hard gate
// in GateFail flips the run to FAIL; soft gate failures never do.
func Evaluate(metas []entity.GateMeta) Report {
	r := Report{Metas: map[string]entity.GateMeta{}, Status: entity.RunStatusOK}
	for _, m := range metas {
		r.Metas[m.GateName()] = m
		if m.GateResult() == entity.GateFail && IsHard(m.GateName()) && r.FailReason == "" {
			r.Status = entity.RunStatusFail
			reason := "gate " + m.GateName() + " FAILed"
			if len(reason) > entity.MaxFailReasonLen {
				reason = reason[:entity.MaxFailReasonLen]
			}
			r.FailReason = reason
		}
	}
	return r
}

// GateResults extracts the gate-name -> result map RunMeta.GateResults needs.
func (r Report) GateResults() map[string]entity.GateResult {
	out := make(map[string]entity.GateResult, len(r.Metas))
	for name, m := range r.Metas {
		out[name] = m.GateResult()
	}
	return out
}
