// Package normalize pre-processes a raw OCR field bag before extraction:
// provider-specific key synonyms are folded into the canonical key space,
// label noise embedded in values is stripped, and tabular installment rows
// are collapsed. Every normalizer is a pure function over its input bag;
// the caller's bag is never mutated.
package normalize

import (
	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/textutil"
)

// Normalizer adapts one provider's OCR quirks to the canonical key space.
type Normalizer interface {
	// Provider returns the provider id this variant handles.
	Provider() string
	// Normalize returns a new bag with the provider's key space folded into
	// canonical keys. The input bag is not modified.
	Normalize(bag model.FieldBag) model.FieldBag
}

// rename folds one provider key into a canonical key.
type rename struct {
	from string
	to   string
}

// defaultRenames are provider-agnostic synonyms seen across every insurer's
// output. Folding is first-write-wins: an existing canonical value is never
// overwritten.
var defaultRenames = []rename{
	{"numero_poliza", model.KeyPolicyNumber},
	{"nro_poliza", model.KeyPolicyNumber},
	{"vigencia_desde", model.KeyStartDate},
	{"vigencia_hasta", model.KeyEndDate},
	{"premio_total", model.KeyTotal},
	{"prima_comercial", model.KeyPremium},
	{"marca", model.KeyVehicleBrand},
	{"modelo", model.KeyVehicleModel},
	{"motor", model.KeyVehicleMotor},
	{"chasis", model.KeyVehicleChassis},
	{"matricula", model.KeyVehiclePlate},
	{"combustible", model.KeyVehicleFuel},
	{"asegurado", model.KeyClientName},
	{"departamento", model.KeyClientDepartment},
	{"moneda", model.KeyCurrency},
	{"corredor", model.KeyBroker},
}

// DefaultNormalizer handles providers without a dedicated variant: synonym
// folding only.
type DefaultNormalizer struct{}

func (DefaultNormalizer) Provider() string { return "default" }

func (DefaultNormalizer) Normalize(bag model.FieldBag) model.FieldBag {
	out := bag.Clone()
	foldRenames(out, defaultRenames)
	return out
}

// foldRenames copies each synonym value to its canonical key unless the
// canonical key already holds a value.
func foldRenames(bag model.FieldBag, renames []rename) {
	for _, r := range renames {
		if bag.Has(r.to) {
			continue
		}
		if v := bag.Get(r.from); v != "" {
			bag[r.to] = v
		}
	}
}

// stripValuePrefixes removes provider label prefixes from the given fields'
// values. The prefix lists are tried in order, case- and accent-
// insensitively. A label only matches at a word boundary, and stripping
// repeats until no label is left, so re-normalizing an already-normalized
// bag changes nothing.
func stripValuePrefixes(bag model.FieldBag, prefixes map[string][]string) {
	for key, labels := range prefixes {
		v := bag.Get(key)
		if v == "" {
			continue
		}
		bag[key] = stripLabelPrefixes(textutil.Collapse(v), labels)
	}
}

func stripLabelPrefixes(s string, labels []string) string {
	for {
		stripped := false
		for _, label := range labels {
			rest, ok := textutil.TrimPrefixFold(s, label)
			if !ok {
				continue
			}
			// Require a boundary so "Aseguradora" keeps the label "Asegurado".
			if rest != "" && rest[0] != ' ' && rest[0] != ':' && rest[0] != '.' {
				continue
			}
			s = trimLabelRest(rest)
			stripped = true
			break
		}
		if !stripped {
			return s
		}
	}
}

func trimLabelRest(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == ':' || s[0] == '.') {
		s = s[1:]
	}
	return s
}
