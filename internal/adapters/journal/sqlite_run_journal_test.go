package journal

import (
	"context"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/platform/db"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *SqliteRunJournal {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(ctx, conn, SQLite))
	return NewSqliteRunJournal(conn)
}

func TestSqliteRunJournalRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	runs := []domain.RunRecord{
		{Operation: "inventory", Status: domain.StatusOptimal, Objective: 22.36, DurationMS: 1, CreatedAt: base},
		{Operation: "routes", Status: domain.StatusTimeout, Objective: 3.41, DurationMS: 30000, CreatedAt: base.Add(time.Minute)},
		{Operation: "transportation", Status: "error", Error: "invalid parameter", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		require.NoError(t, j.Record(ctx, r))
	}

	got, err := j.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "transportation", got[0].Operation)
	assert.Equal(t, "invalid parameter", got[0].Error)
	assert.Equal(t, "routes", got[1].Operation)
	assert.Equal(t, domain.StatusTimeout, got[1].Status)
	assert.InDelta(t, 3.41, got[1].Objective, 1e-12)
	assert.Equal(t, int64(30000), got[1].DurationMS)
	assert.True(t, got[1].CreatedAt.Equal(base.Add(time.Minute)))
	assert.NotZero(t, got[1].ID)
}

func TestSqliteRunJournalDefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	before := time.Now().Add(-time.Second)
	require.NoError(t, j.Record(ctx, domain.RunRecord{Operation: "clusters", Status: domain.StatusOptimal}))

	got, err := j.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CreatedAt.After(before), "created_at = %v", got[0].CreatedAt)
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)
	require.NoError(t, InitSchema(ctx, j.DB, SQLite))
	require.Error(t, InitSchema(ctx, j.DB, Dialect("oracle")))
}

func TestRunJournalNilDB(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, NewSqliteRunJournal(nil).Record(ctx, domain.RunRecord{}))
	assert.Error(t, NewSQLRunJournal(nil).Record(ctx, domain.RunRecord{}))
	_, err := NewSQLRunJournal(nil).ListRecent(ctx, 1)
	assert.Error(t, err)
}
