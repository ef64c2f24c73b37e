package ports

import (
	"context"
	"supply-chain-optimizer/internal/domain"
)

// Port: an append-only log of optimisation runs.
type RunJournal interface {
	// Append one run. Implementations fill in ID and CreatedAt when unset.
	Record(ctx context.Context, rec domain.RunRecord) error
	// Return up to limit runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
