package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/refmatch"
)

const rulesYAML = `combustible:
  - code: GAS
    keywords: [NAFTA, GASOLINA]
  - code: DIS
    keywords: [DIESEL, GASOIL]
moneda:
  - code: UYU
    keywords: [PESO, PESOS, "$U"]
`

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulesYAML), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	fuel := rules[model.ListFuel]
	require.Len(t, fuel, 2)
	// Declaration order is load order.
	assert.Equal(t, refmatch.Rule{Code: "GAS", Keywords: []string{"NAFTA", "GASOLINA"}}, fuel[0])
	assert.Equal(t, refmatch.Rule{Code: "DIS", Keywords: []string{"DIESEL", "GASOIL"}}, fuel[1])

	assert.Equal(t, []string{"PESO", "PESOS", "$U"}, rules[model.ListCurrency][0].Keywords)
}

func TestLoadRules_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("combustible: [not: a: rule"), 0o644))

	_, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse rules file")
}

func TestLoadRules_Missing(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
