// Package textutil holds the text cleanup shared by the extraction and
// matching packages. OCR output mixes accents, stray newlines and label
// noise; everything that compares strings goes through these helpers first.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newFold builds a fresh fold transformer. transform.Chain values and the
// norm forms carry internal buffers, so one instance must not be shared
// across goroutines: documents are mapped concurrently.
func newFold() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Fold strips combining marks so accented OCR text compares equal to the
// unaccented keywords in rule tables ("Póliza" → "Poliza").
func Fold(s string) string {
	out, _, err := transform.String(newFold(), s)
	if err != nil {
		return s
	}
	return out
}

// Collapse trims the string and collapses internal whitespace runs
// (including newlines) to single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Canon uppercases, folds accents and collapses whitespace. This is the
// normal form used for all keyword and similarity comparisons.
func Canon(s string) string {
	return strings.ToUpper(Fold(Collapse(s)))
}

// Identifier cleans plate/motor/chassis style values: accent-folded,
// uppercased, whitespace collapsed, with separators dropped entirely.
func Identifier(s string) string {
	s = Canon(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Title renders person/company names in Spanish title case with collapsed
// whitespace. The Caser is stateful, so it is built per call.
func Title(s string) string {
	return cases.Title(language.Spanish).String(strings.ToLower(Collapse(s)))
}

// TrimPrefixFold strips prefix from s, comparing rune by rune with accents
// folded and case ignored, and returns the remainder. The remainder keeps
// the original (unfolded) text.
func TrimPrefixFold(s, prefix string) (string, bool) {
	p := []rune(strings.ToUpper(Fold(prefix)))
	j := 0
	for i, r := range s {
		if j == len(p) {
			return s[i:], true
		}
		fr := []rune(strings.ToUpper(Fold(string(r))))
		if len(fr) != 1 || fr[0] != p[j] {
			return "", false
		}
		j++
	}
	if j == len(p) {
		return "", true
	}
	return "", false
}

// Words splits a canonical string into words longer than min runes.
func Words(s string, min int) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len([]rune(w)) > min {
			out = append(out, w)
		}
	}
	return out
}
