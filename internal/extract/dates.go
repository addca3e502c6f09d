package extract

import (
	"regexp"
	"strings"
	"time"
)

// ISO layout every parsed date is normalized to.
const isoDate = "2006-01-02"

// dateLayouts are tried in order. Day-first layouts come before month-first
// because the scanned documents are es-UY; month-first is only reached for
// values the day-first layouts reject (day > 12).
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02.01.2006",
	"01/02/2006",
	"02/01/06",
	"02-01-06",
	"02.01.06",
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
}

var embeddedDateRe = regexp.MustCompile(`\d{1,4}[/.-]\d{1,2}[/.-]\d{1,4}`)

// ParseDate normalizes a scanned date to ISO yyyy-MM-dd. Unparseable input
// yields "": a missing date is an extraction gap, not an error.
func ParseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// The OCR value often embeds the date in label text ("Vence: 01/03/2024").
	if m := embeddedDateRe.FindString(s); m != "" {
		s = m
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if !plausibleYear(t) {
			continue
		}
		return t.Format(isoDate)
	}
	return ""
}

// plausibleYear rejects parses that landed outside the range scanned policy
// documents can carry.
func plausibleYear(t time.Time) bool {
	y := t.Year()
	return y >= 1900 && y <= 2099
}

// FindDates returns every parseable date in s, normalized to ISO, in
// left-to-right order.
func FindDates(s string) []string {
	var out []string
	for _, m := range embeddedDateRe.FindAllString(s, -1) {
		if iso := ParseDate(m); iso != "" {
			out = append(out, iso)
		}
	}
	return out
}
