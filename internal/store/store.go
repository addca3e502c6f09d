// Package store persists mapping-run summaries for audit and review
// tooling. Only the run outcome is recorded here; the canonical policy
// record itself is submitted downstream by the caller.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// RunRecord is one persisted mapping run.
type RunRecord struct {
	ID          string          `json:"id"`
	Document    string          `json:"document"` // source file or request id
	Provider    string          `json:"provider"`
	Ready       bool            `json:"ready"`
	Completion  float64         `json:"completion"`
	Issues      int             `json:"issues"`
	Suggestions int             `json:"suggestions"`
	Result      json.RawMessage `json:"result,omitempty"` // full MappingResult
	CreatedAt   time.Time       `json:"created_at"`
}

// Filter narrows ListRuns.
type Filter struct {
	Provider  string
	ReadyOnly bool
	Limit     int
}

// Store is the audit persistence interface.
type Store interface {
	RecordRun(ctx context.Context, rec RunRecord) (*RunRecord, error)
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, filter Filter) ([]RunRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}
