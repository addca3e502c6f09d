package extract

import (
	"regexp"
	"strings"

	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/textutil"
)

// labelLiterals are OCR label fragments that leak into values regardless of
// provider ("Marca\nTOYOTA"). Provider-specific prefixes live in the
// normalizers; these are the generic leftovers the extractor always strips.
var labelLiterals = []string{
	"poliza:", "poliza nro", "poliza n°", "nro. de poliza",
	"marca:", "marca", "modelo:", "modelo",
	"motor:", "motor", "chasis:", "chasis",
	"matricula:", "padron:", "depto:", "departamento:",
	"cliente:", "asegurado:", "tomador:",
}

var (
	digitsRe = regexp.MustCompile(`\d{7,9}`)

	// currencyRe recognizes es-UY amounts with an explicit currency sign or
	// separator structure: "$ 63.812,36", "10.500,00", "1.234".
	currencyRe = regexp.MustCompile(`\$\s*\d[\d.,]*|\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?|\d+,\d{1,2}`)
)

// StripLabels removes any known label literal from the start of the value,
// case- and accent-insensitively, then collapses whitespace.
func StripLabels(s string) string {
	collapsed := textutil.Collapse(s)
	for _, label := range labelLiterals {
		rest, ok := textutil.TrimPrefixFold(collapsed, label)
		if !ok {
			continue
		}
		// Require a boundary so "MARCADOR" is not read as label "marca".
		if rest != "" && rest[0] != ' ' && rest[0] != ':' {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(rest, " :"))
	}
	return collapsed
}

// CleanPolicyNumber keeps the first 7–9 digit run in the value.
func CleanPolicyNumber(s string) string {
	return digitsRe.FindString(s)
}

var anyDigitsRe = regexp.MustCompile(`\d+`)

// CleanNumber keeps the first digit run of any length (endorsement numbers
// can be a single digit).
func CleanNumber(s string) string {
	return anyDigitsRe.FindString(s)
}

// movementRules classify free movement text. Order matters: the earliest
// keyword hit wins.
var movementRules = []struct {
	movement string
	keywords []string
}{
	{model.MovementRenewal, []string{"RENOV"}},
	{model.MovementEndorsement, []string{"ENDOSO", "MODIFIC"}},
	{model.MovementCancel, []string{"ANUL", "CANCEL", "BAJA"}},
	{model.MovementEmission, []string{"EMISION", "EMITIDA", "NUEVA", "ALTA"}},
}

// ClassifyMovement maps free text to the movement enum. Unrecognized text
// passes through uppercased; empty input defaults to EMISION.
func ClassifyMovement(s string) string {
	canon := textutil.Canon(s)
	if canon == "" {
		return model.MovementEmission
	}
	for _, rule := range movementRules {
		for _, kw := range rule.keywords {
			if strings.Contains(canon, kw) {
				return rule.movement
			}
		}
	}
	return canon
}
