package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	amountCharsRe   = regexp.MustCompile(`[^0-9.,\-]`)
	installmentsRe  = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:cuotas?|pagos?)\b`)
	leadingDigitsRe = regexp.MustCompile(`^\s*(\d{1,2})\b`)
	yearRe          = regexp.MustCompile(`(19|20)\d{2}`)
)

// ParseAmount converts a scanned currency string to a float. The documents
// use es-UY formatting: "." groups thousands, "," separates decimals
// ("$ 63.812,36" → 63812.36). Anything that cannot be read as that format
// yields 0.
func ParseAmount(s string) float64 {
	cleaned := amountCharsRe.ReplaceAllString(s, "")
	if cleaned == "" || !strings.ContainsAny(cleaned, "0123456789") {
		return 0
	}

	hasDot := strings.Contains(cleaned, ".")
	hasComma := strings.Contains(cleaned, ",")

	switch {
	case hasDot && hasComma:
		// Both separators: valid only when the comma is the decimal mark,
		// i.e. it comes after every dot. "1,234.56" is not es-UY and reads
		// as 0 rather than guessing.
		if strings.LastIndex(cleaned, ",") < strings.LastIndex(cleaned, ".") {
			return 0
		}
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case hasComma:
		if strings.Count(cleaned, ",") > 1 {
			return 0
		}
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case hasDot:
		// Dot-only: a trailing 3-digit group is thousands ("10.500"),
		// shorter groups are decimals ("10.5").
		idx := strings.LastIndex(cleaned, ".")
		if strings.Count(cleaned, ".") > 1 || len(cleaned)-idx-1 == 3 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseInstallments extracts the installment count from values like
// "4 cuotas", "EN 6 PAGOS" or a bare "4". Defaults to 1.
func ParseInstallments(s string) int {
	if m := installmentsRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := leadingDigitsRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// ParseYear reads a 4-digit model year, accepting label noise around it.
func ParseYear(s string) int {
	m := yearRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}
