// Package registry loads master-data snapshots for the mapping pipeline.
// The pipeline itself never fetches reference data; these loaders are the
// collaborator side: a JSON snapshot file, an XLSX workbook as insurers
// publish them, a local SQLite cache, and YAML keyword rule tables.
package registry

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/corredora-austral/policy-cli/internal/mapper"
	"github.com/corredora-austral/policy-cli/internal/model"
)

// Load reads a reference snapshot, dispatching on the file extension:
// .json, .xlsx or a SQLite cache for anything else.
func Load(path string) (mapper.ReferenceData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".xlsx":
		return LoadWorkbook(path)
	default:
		cache, err := OpenCache(path)
		if err != nil {
			return mapper.ReferenceData{}, err
		}
		defer cache.Close()
		return cache.Snapshot()
	}
}

// Summary describes one list of a snapshot for inspection tooling.
type Summary struct {
	ListType string `json:"list_type"`
	Items    int    `json:"items"`
	Coded    int    `json:"coded"`
	Rules    int    `json:"rules"`
}

// Summarize returns per-list counts in list-type order.
func Summarize(refs mapper.ReferenceData) []Summary {
	types := make([]string, 0, len(refs.Lists))
	for t := range refs.Lists {
		types = append(types, t)
	}
	sort.Strings(types)

	out := make([]Summary, 0, len(types))
	for _, t := range types {
		s := Summary{ListType: t, Items: len(refs.Lists[t]), Rules: len(refs.Rules[t])}
		for _, item := range refs.Lists[t] {
			if item.Code != "" {
				s.Coded++
			}
		}
		out = append(out, s)
	}
	return out
}

// Validate checks a snapshot for the problems that break matching:
// unknown list types, items without an id or name, and rules whose code
// resolves to nothing.
func Validate(refs mapper.ReferenceData) error {
	known := make(map[string]bool, len(model.ListTypes))
	for _, t := range model.ListTypes {
		known[t] = true
	}

	for t, items := range refs.Lists {
		if !known[t] {
			return eris.Errorf("registry: unknown list type %q", t)
		}
		for i, item := range items {
			if item.ID == "" {
				return eris.Errorf("registry: %s[%d] has no id", t, i)
			}
			if item.Name == "" {
				return eris.Errorf("registry: %s[%d] (%s) has no name", t, i, item.ID)
			}
		}
	}

	for t, rules := range refs.Rules {
		if len(refs.Lists[t]) == 0 {
			return eris.Errorf("registry: rule table %q has no reference list", t)
		}
		for _, rule := range rules {
			if rule.Code == "" || len(rule.Keywords) == 0 {
				return eris.Errorf("registry: rule table %q has an empty rule", t)
			}
		}
	}
	return nil
}
