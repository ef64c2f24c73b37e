package domain

import "errors"

var (
	// ErrInvalidParameter marks malformed input. It is always detected before
	// any solver runs.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSolver marks a numerical fault inside the LP engine. It is not a
	// statement about the instance and should be treated as an internal error.
	ErrSolver = errors.New("solver failure")
)
