package domain

// SolveStatus is the outcome reported by a solver. Statuses are returned in
// result records, never as errors.
type SolveStatus string

const (
	StatusOptimal    SolveStatus = "optimal"
	StatusInfeasible SolveStatus = "infeasible"
	StatusUnbounded  SolveStatus = "unbounded"
	StatusTimeout    SolveStatus = "timeout"
	StatusCancelled  SolveStatus = "cancelled"
)

// Final reports whether the status describes a complete, reproducible answer.
// Timed-out and cancelled solves depend on wall-clock behaviour.
func (s SolveStatus) Final() bool {
	return s != StatusTimeout && s != StatusCancelled
}
