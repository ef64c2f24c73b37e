package domain

import "time"

// RunRecord describes one optimisation call for the run journal.
type RunRecord struct {
	ID         int64
	Operation  string
	Status     SolveStatus
	Objective  float64
	DurationMS int64
	Error      string
	CreatedAt  time.Time
}

// RunStatusError marks a journal entry for a call that failed before a
// solver produced a status.
const RunStatusError SolveStatus = "error"
