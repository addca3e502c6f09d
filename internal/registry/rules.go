package registry

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/corredora-austral/policy-cli/internal/refmatch"
)

// rulesFile is the YAML shape of a rule-table file:
//
//	combustible:
//	  - code: GAS
//	    keywords: [NAFTA, GASOLINA]
//	  - code: DIS
//	    keywords: [DIESEL, GASOIL]
//
// Rule order within a table is significant (first match wins) and is
// preserved by the YAML sequence.
type rulesFile map[string]refmatch.RuleTable

// LoadRules reads keyword rule tables from a YAML file.
func LoadRules(path string) (map[string]refmatch.RuleTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read rules file")
	}

	var parsed rulesFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, eris.Wrap(err, "registry: parse rules file")
	}
	return parsed, nil
}
