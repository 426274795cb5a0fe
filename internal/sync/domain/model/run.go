package model

import "time"

// RunState identifies a step of the reconciliation state machine.
type RunState string

const (
	RunStateInit        RunState = "INIT"
	RunStateFetchSource RunState = "FETCH_SOURCE"
	RunStateUpsertLoop  RunState = "UPSERT_LOOP"
	RunStateScanTarget  RunState = "SCAN_TARGET"
	RunStateArchiveLoop RunState = "ARCHIVE_LOOP"
	RunStateDone        RunState = "DONE"
	RunStateFailed      RunState = "FAILED"
)

// Terminal reports whether the state machine has finished.
func (s RunState) Terminal() bool {
	return s == RunStateDone || s == RunStateFailed
}

// RunReport accumulates the counters of one reconciliation run and is
// the final summary emitted when the run terminates.
type RunReport struct {
	RunID      string    `json:"runId"`
	State      RunState  `json:"state"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Archived   int       `json:"archived"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
