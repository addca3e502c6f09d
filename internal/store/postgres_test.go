package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgres_RecordRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO mapping_runs`).
		WithArgs(pgxmock.AnyArg(), "poliza.pdf", "bse", true, 87.5, 1, 2, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec, err := s.RecordRun(context.Background(), RunRecord{
		Document:    "poliza.pdf",
		Provider:    "bse",
		Ready:       true,
		Completion:  87.5,
		Issues:      1,
		Suggestions: 2,
		Result:      []byte(`{"ready":true}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Pool_SharesConnections(t *testing.T) {
	// The master-data push path queries through the store's pool directly.
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec("SELECT 1").WillReturnResult(pgxmock.NewResult("SELECT", 1))

	_, err := s.Pool().Exec(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, document, provider, ready, completion, issues, suggestions, result, created_at`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "document", "provider", "ready", "completion", "issues", "suggestions", "result", "created_at",
	}).AddRow("run-1", "a.pdf", "sura", false, 42.0, 3, 1, []byte(`{}`), now)

	mock.ExpectQuery(`SELECT id, document, provider, ready, completion, issues, suggestions, result, created_at`).
		WithArgs("run-1").
		WillReturnRows(rows)

	rec, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "sura", rec.Provider)
	assert.InDelta(t, 42.0, rec.Completion, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListRuns_ProviderFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "document", "provider", "ready", "completion", "issues", "suggestions", "result", "created_at",
	}).
		AddRow("run-1", "a.pdf", "bse", true, 90.0, 0, 0, nil, now).
		AddRow("run-2", "b.pdf", "bse", false, 60.0, 2, 1, nil, now)

	mock.ExpectQuery(`SELECT id, document, provider, ready, completion, issues, suggestions, result, created_at`).
		WithArgs("bse", 100).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), Filter{Provider: "bse"})
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
