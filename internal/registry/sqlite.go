package registry

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/corredora-austral/policy-cli/internal/mapper"
	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/refmatch"
)

// Cache is a local SQLite copy of the registry's reference lists, so batch
// runs do not depend on the registry service being reachable. Refreshing it
// from a JSON/XLSX snapshot is the caller's explicit action; the mapping
// core never touches it.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) a snapshot cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: open cache")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "registry: exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS reference_items (
	list_type TEXT NOT NULL,
	position  INTEGER NOT NULL,
	id        TEXT NOT NULL,
	name      TEXT NOT NULL,
	code      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (list_type, position)
);

CREATE TABLE IF NOT EXISTS rule_tables (
	list_type TEXT PRIMARY KEY,
	rules     TEXT NOT NULL
);
`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "registry: migrate cache")
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Replace overwrites the cached snapshot with refs. Item order within each
// list is preserved; matching depends on it.
func (c *Cache) Replace(ctx context.Context, refs mapper.ReferenceData) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "registry: begin replace")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_items`); err != nil {
		return eris.Wrap(err, "registry: clear items")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rule_tables`); err != nil {
		return eris.Wrap(err, "registry: clear rules")
	}

	for listType, items := range refs.Lists {
		for i, item := range items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO reference_items (list_type, position, id, name, code) VALUES (?, ?, ?, ?, ?)`,
				listType, i, item.ID, item.Name, item.Code,
			)
			if err != nil {
				return eris.Wrapf(err, "registry: insert %s[%d]", listType, i)
			}
		}
	}

	for listType, rules := range refs.Rules {
		raw, err := json.Marshal(rules)
		if err != nil {
			return eris.Wrapf(err, "registry: marshal rules %s", listType)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO rule_tables (list_type, rules) VALUES (?, ?)`,
			listType, string(raw),
		)
		if err != nil {
			return eris.Wrapf(err, "registry: insert rules %s", listType)
		}
	}

	return eris.Wrap(tx.Commit(), "registry: commit replace")
}

// Snapshot reads the full cached snapshot.
func (c *Cache) Snapshot() (mapper.ReferenceData, error) {
	refs := mapper.ReferenceData{
		Lists: make(map[string][]model.ReferenceItem),
		Rules: make(map[string]refmatch.RuleTable),
	}

	rows, err := c.db.Query(
		`SELECT list_type, id, name, code FROM reference_items ORDER BY list_type, position`)
	if err != nil {
		return refs, eris.Wrap(err, "registry: query items")
	}
	defer rows.Close()

	for rows.Next() {
		var listType string
		var item model.ReferenceItem
		if err := rows.Scan(&listType, &item.ID, &item.Name, &item.Code); err != nil {
			return refs, eris.Wrap(err, "registry: scan item")
		}
		refs.Lists[listType] = append(refs.Lists[listType], item)
	}
	if err := rows.Err(); err != nil {
		return refs, eris.Wrap(err, "registry: iterate items")
	}

	ruleRows, err := c.db.Query(`SELECT list_type, rules FROM rule_tables`)
	if err != nil {
		return refs, eris.Wrap(err, "registry: query rules")
	}
	defer ruleRows.Close()

	for ruleRows.Next() {
		var listType, raw string
		if err := ruleRows.Scan(&listType, &raw); err != nil {
			return refs, eris.Wrap(err, "registry: scan rules")
		}
		var table refmatch.RuleTable
		if err := json.Unmarshal([]byte(raw), &table); err != nil {
			return refs, eris.Wrapf(err, "registry: parse rules %s", listType)
		}
		refs.Rules[listType] = table
	}
	return refs, eris.Wrap(ruleRows.Err(), "registry: iterate rules")
}
