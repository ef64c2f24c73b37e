package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"supply-chain-optimizer/internal/domain"
	"time"
)

// SQLite backed run journal, used for local runs without Postgres.
type SqliteRunJournal struct {
	DB *sql.DB
}

func NewSqliteRunJournal(db *sql.DB) *SqliteRunJournal {
	return &SqliteRunJournal{DB: db}
}

func (s *SqliteRunJournal) Record(ctx context.Context, rec domain.RunRecord) error {
	if s.DB == nil {
		return errors.New("run journal: db is nil")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO optimization_runs (operation, status, objective, duration_ms, error, created_at)
	VALUES (?, ?, ?, ?, ?, ?);
	`, rec.Operation, string(rec.Status), rec.Objective, rec.DurationMS, rec.Error, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("record run op=%q: %w", rec.Operation, err)
	}
	return nil
}

func (s *SqliteRunJournal) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.DB == nil {
		return nil, errors.New("run journal: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, operation, status, objective, duration_ms, error, created_at
	FROM optimization_runs
	ORDER BY created_at DESC, id DESC
	LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query optimization_runs table: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]domain.RunRecord, error) {
	defer rows.Close()

	out := []domain.RunRecord{}
	for rows.Next() {
		var rec domain.RunRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.Operation, &status, &rec.Objective, &rec.DurationMS, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: scan rows: %w", err)
		}
		rec.Status = domain.SolveStatus(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}
	return out, nil
}
