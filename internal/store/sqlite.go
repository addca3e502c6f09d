package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given DSN and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS mapping_runs (
	id          TEXT PRIMARY KEY,
	document    TEXT NOT NULL,
	provider    TEXT NOT NULL,
	ready       INTEGER NOT NULL DEFAULT 0,
	completion  REAL NOT NULL DEFAULT 0,
	issues      INTEGER NOT NULL DEFAULT 0,
	suggestions INTEGER NOT NULL DEFAULT 0,
	result      TEXT,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_mapping_runs_provider ON mapping_runs(provider);
CREATE INDEX IF NOT EXISTS idx_mapping_runs_ready ON mapping_runs(ready);
CREATE INDEX IF NOT EXISTS idx_mapping_runs_created_at ON mapping_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordRun(ctx context.Context, rec RunRecord) (*RunRecord, error) {
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mapping_runs (id, document, provider, ready, completion, issues, suggestions, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Document, rec.Provider, boolToInt(rec.Ready), rec.Completion,
		rec.Issues, rec.Suggestions, string(rec.Result), rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return &rec, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document, provider, ready, completion, issues, suggestions, result, created_at
		 FROM mapping_runs WHERE id = ?`, id)

	rec, err := scanRun(row.Scan)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: run %s not found", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}
	return rec, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter Filter) ([]RunRecord, error) {
	query := `SELECT id, document, provider, ready, completion, issues, suggestions, result, created_at
	          FROM mapping_runs WHERE 1=1`
	var args []any
	if filter.Provider != "" {
		query += ` AND provider = ?`
		args = append(args, filter.Provider)
	}
	if filter.ReadyOnly {
		query += ` AND ready = 1`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func scanRun(scan func(...any) error) (*RunRecord, error) {
	var rec RunRecord
	var ready int
	var result sql.NullString
	err := scan(&rec.ID, &rec.Document, &rec.Provider, &ready, &rec.Completion,
		&rec.Issues, &rec.Suggestions, &result, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Ready = ready != 0
	if result.Valid && result.String != "" {
		rec.Result = []byte(result.String)
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
