package registry

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/corredora-austral/policy-cli/internal/mapper"
)

// LoadJSON reads a snapshot file of the form
//
//	{"lists": {"combustible": [{"id": "...", "name": "...", "code": "..."}]},
//	 "rules": {"combustible": [{"code": "GAS", "keywords": ["NAFTA"]}]}}
func LoadJSON(path string) (mapper.ReferenceData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return mapper.ReferenceData{}, eris.Wrap(err, "registry: read json snapshot")
	}

	var refs mapper.ReferenceData
	if err := json.Unmarshal(raw, &refs); err != nil {
		return mapper.ReferenceData{}, eris.Wrap(err, "registry: parse json snapshot")
	}
	return refs, nil
}

// WriteJSON writes a snapshot back out, for refreshing fixtures from other
// sources.
func WriteJSON(path string, refs mapper.ReferenceData) error {
	raw, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return eris.Wrap(err, "registry: marshal snapshot")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return eris.Wrap(err, "registry: write json snapshot")
	}
	return nil
}
