package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"supply-chain-optimizer/internal/domain"
	"time"
)

// SQLRunJournal is a Postgres-backed run journal.
type SQLRunJournal struct {
	DB *sql.DB
}

func NewSQLRunJournal(db *sql.DB) *SQLRunJournal {
	return &SQLRunJournal{DB: db}
}

func (s *SQLRunJournal) Record(ctx context.Context, rec domain.RunRecord) error {
	if s.DB == nil {
		return errors.New("run journal: db is nil")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO optimization_runs (operation, status, objective, duration_ms, error, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`, rec.Operation, string(rec.Status), rec.Objective, rec.DurationMS, rec.Error, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("record run op=%q: %w", rec.Operation, err)
	}
	return nil
}

func (s *SQLRunJournal) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.DB == nil {
		return nil, errors.New("run journal: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, operation, status, objective, duration_ms, error, created_at
	FROM optimization_runs
	ORDER BY created_at DESC, id DESC
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query optimization_runs table: %w", err)
	}
	return scanRuns(rows)
}
