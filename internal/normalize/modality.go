package normalize

import (
	"strings"

	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/textutil"
)

// Closed modality vocabulary.
const (
	ModalityFull       = "TODO RIESGO"
	ModalityThirdParty = "TERCEROS"
	ModalityBasic      = "BASICA"
)

// modalityRule classifies free coverage text by substring. Rules requiring
// every keyword of a combination are listed before single-keyword rules so
// the most specific rule wins ("TERCEROS" + "INCENDIO" must not fall
// through to plain TERCEROS).
type modalityRule struct {
	modality string
	all      []string
}

var modalityRules = []modalityRule{
	{ModalityFull, []string{"TODO", "RIESGO"}},
	{ModalityFull, []string{"COBERTURA", "TOTAL"}},
	{ModalityThirdParty, []string{"TERCEROS", "INCENDIO"}},
	{ModalityThirdParty, []string{"RESPONSABILIDAD", "CIVIL"}},
	{ModalityThirdParty, []string{"TERCEROS"}},
	{ModalityBasic, []string{"BASICA"}},
	{ModalityBasic, []string{"BASICO"}},
	{ModalityBasic, []string{"MINIMA"}},
}

// classifyModality rewrites the bag's modality value into the closed
// vocabulary. Text matching no rule is left as is; extraction will
// uppercase it.
func classifyModality(bag model.FieldBag) {
	raw := bag.Get(model.KeyModality)
	if raw == "" {
		return
	}
	canon := textutil.Canon(raw)
	for _, rule := range modalityRules {
		if containsAll(canon, rule.all) {
			bag[model.KeyModality] = rule.modality
			return
		}
	}
}

func containsAll(s string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(s, kw) {
			return false
		}
	}
	return true
}
