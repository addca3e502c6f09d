package registry

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/corredora-austral/policy-cli/internal/db"
	"github.com/corredora-austral/policy-cli/internal/mapper"
)

const pushMigration = `
CREATE TABLE IF NOT EXISTS reference_items (
	list_type TEXT NOT NULL,
	id        TEXT NOT NULL,
	position  INTEGER NOT NULL,
	name      TEXT NOT NULL,
	code      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (list_type, id)
);

CREATE TABLE IF NOT EXISTS rule_tables (
	list_type TEXT PRIMARY KEY,
	rules     JSONB NOT NULL
);
`

var referenceItemColumns = []string{"list_type", "id", "position", "name", "code"}

// Push upserts a registry snapshot into the shared Postgres master-data
// tables so other back-office services read the same lists the mapper
// matches against. Existing rows are updated in place; rows absent from
// the snapshot are left untouched.
func Push(ctx context.Context, pool db.Pool, refs mapper.ReferenceData) (int64, error) {
	if _, err := pool.Exec(ctx, pushMigration); err != nil {
		return 0, eris.Wrap(err, "registry: migrate master-data tables")
	}

	n, err := db.BulkUpsert(ctx, pool, db.UpsertConfig{
		Table:        "reference_items",
		Columns:      referenceItemColumns,
		ConflictKeys: []string{"list_type", "id"},
	}, itemRows(refs))
	if err != nil {
		return 0, eris.Wrap(err, "registry: push items")
	}

	if err := pushRules(ctx, pool, refs); err != nil {
		return n, err
	}
	return n, nil
}

// PushReplace rewrites the master-data tables from the snapshot: every
// existing reference row is deleted and the snapshot is loaded with COPY.
// Used when a provider retires list entries that an upsert would keep.
func PushReplace(ctx context.Context, pool db.Pool, refs mapper.ReferenceData) (int64, error) {
	if _, err := pool.Exec(ctx, pushMigration); err != nil {
		return 0, eris.Wrap(err, "registry: migrate master-data tables")
	}
	if _, err := pool.Exec(ctx, `DELETE FROM reference_items`); err != nil {
		return 0, eris.Wrap(err, "registry: clear reference items")
	}

	n, err := db.CopyFrom(ctx, pool, "reference_items", referenceItemColumns, itemRows(refs))
	if err != nil {
		return 0, eris.Wrap(err, "registry: copy items")
	}

	if err := pushRules(ctx, pool, refs); err != nil {
		return n, err
	}
	return n, nil
}

func itemRows(refs mapper.ReferenceData) [][]any {
	var rows [][]any
	for _, listType := range sortedListTypes(refs.Lists) {
		for i, item := range refs.Lists[listType] {
			rows = append(rows, []any{listType, item.ID, i, item.Name, item.Code})
		}
	}
	return rows
}

func pushRules(ctx context.Context, pool db.Pool, refs mapper.ReferenceData) error {
	for _, listType := range sortedListTypes(refs.Rules) {
		raw, err := json.Marshal(refs.Rules[listType])
		if err != nil {
			return eris.Wrapf(err, "registry: marshal rules %s", listType)
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO rule_tables (list_type, rules) VALUES ($1, $2)
			 ON CONFLICT (list_type) DO UPDATE SET rules = $2`,
			listType, raw,
		)
		if err != nil {
			return eris.Wrapf(err, "registry: push rules %s", listType)
		}
	}
	return nil
}

// sortedListTypes keeps upsert row order stable across pushes.
func sortedListTypes[V any](m map[string]V) []string {
	types := make([]string, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
