package entity

import "time"

// RunMode selects the strictness profile a run executes under.
type RunMode string

const (
	ModeManual RunMode = "manual"
	ModeDaily  RunMode = "daily"
	ModeDemo   RunMode = "demo"
	ModeBrief  RunMode = "brief"
)

// RunStatus is the final OK/FAIL verdict the Orchestrator assigns to a run.
type RunStatus string

const (
	RunStatusOK   RunStatus = "OK"
	RunStatusFail RunStatus = "FAIL"
)

// GateResult is the outcome of evaluating a single gate.
type GateResult string

const (
	GatePass   GateResult = "PASS"
	GateWarnOK GateResult = "WARN-OK"
	GateFail   GateResult = "FAIL"
	GateSkip   GateResult = "SKIP"
)

// RunMeta is the single record of a pipeline run, finalized once all gates
// have been evaluated.
type RunMeta struct {
	RunID      string    `json:"run_id"`
	Mode       RunMode   `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     RunStatus `json:"status"`
	// GateResults maps gate name to its verdict, e.g. "pool_sufficiency_hard" -> PASS.
	GateResults map[string]GateResult `json:"gate_results"`
	FailReason  string                `json:"fail_reason,omitempty"` // <= 300 chars; empty unless Status == FAIL
}

// MaxFailReasonLen bounds FailReason per the error-handling design.
const MaxFailReasonLen = 300

// Validate checks run_id presence and the FailReason length cap, and that a
// FAIL status carries a non-empty reason.
func (r *RunMeta) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "run_id", Message: "run_id is required"}
	}
	if len(r.FailReason) > MaxFailReasonLen {
		return &ValidationError{Field: "fail_reason", Message: "fail_reason must be <= 300 characters"}
	}
	if r.Status == RunStatusFail && r.FailReason == "" {
		return &ValidationError{Field: "fail_reason", Message: "fail_reason is required when status=FAIL"}
	}
	if r.Status == RunStatusOK {
		for gate, result := range r.GateResults {
			if result == GateFail {
				return &ValidationError{Field: "status", Message: "status=OK requires every hard gate to PASS, but " + gate + " FAILed"}
			}
		}
	}
	return nil
}
