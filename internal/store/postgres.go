package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/corredora-austral/policy-cli/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests and by the
// refdata push path, which shares one pool between the store and the
// master-data upserts.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (e.g., master-data upserts).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS mapping_runs (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	document    TEXT NOT NULL,
	provider    TEXT NOT NULL,
	ready       BOOLEAN NOT NULL DEFAULT false,
	completion  DOUBLE PRECISION NOT NULL DEFAULT 0,
	issues      INTEGER NOT NULL DEFAULT 0,
	suggestions INTEGER NOT NULL DEFAULT 0,
	result      JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_mapping_runs_provider ON mapping_runs(provider);
CREATE INDEX IF NOT EXISTS idx_mapping_runs_ready ON mapping_runs(ready);
CREATE INDEX IF NOT EXISTS idx_mapping_runs_created_at ON mapping_runs(created_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) RecordRun(ctx context.Context, rec RunRecord) (*RunRecord, error) {
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	var result any
	if len(rec.Result) > 0 {
		result = []byte(rec.Result)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO mapping_runs (id, document, provider, ready, completion, issues, suggestions, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Document, rec.Provider, rec.Ready, rec.Completion,
		rec.Issues, rec.Suggestions, result, rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return &rec, nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	var rec RunRecord
	var result []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, document, provider, ready, completion, issues, suggestions, result, created_at
		 FROM mapping_runs WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Document, &rec.Provider, &rec.Ready, &rec.Completion,
		&rec.Issues, &rec.Suggestions, &result, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("postgres: run %s not found", id)
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}
	rec.Result = result
	return &rec, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter Filter) ([]RunRecord, error) {
	query := `SELECT id, document, provider, ready, completion, issues, suggestions, result, created_at
	          FROM mapping_runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Provider != "" {
		query += fmt.Sprintf(` AND provider = $%d`, argIdx)
		args = append(args, filter.Provider)
		argIdx++
	}
	if filter.ReadyOnly {
		query += ` AND ready = true`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var result []byte
		if err := rows.Scan(&rec.ID, &rec.Document, &rec.Provider, &rec.Ready, &rec.Completion,
			&rec.Issues, &rec.Suggestions, &result, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		rec.Result = result
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}
