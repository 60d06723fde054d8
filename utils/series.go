package utils

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// "Set No. W 3", "Set W-3", "SET No W3" -> W-3
	setWRegex = regexp.MustCompile(`(?i)\bset\s*(?:no\.?\s*)?W[-\s]?(\d+)`)
	// "SET WOW S1", "SET WOW S 01" -> WOW-S1 (leading zeros stripped)
	setWOWRegex = regexp.MustCompile(`(?i)\bset\s+wow\s*s\s*0*(\d+)`)

	leadingAlphaRegex    = regexp.MustCompile(`^([A-Za-z]{2,})`)
	leadingWDigitsRegex  = regexp.MustCompile(`^[Ww][-\s]?(\d+)`)
	leadingNonDigitRegex = regexp.MustCompile(`^([^0-9]+)`)
)

// DetectSetSeries inspects page text for a weight-set marker and derives
// the series identifier. Returns "" when no marker is present.
func DetectSetSeries(pageText string) string {
	text := whitespaceRegex.ReplaceAllString(pageText, " ")

	if m := setWRegex.FindStringSubmatch(text); m != nil {
		return "W-" + m[1]
	}
	if m := setWOWRegex.FindStringSubmatch(text); m != nil {
		return "WOW-S" + m[1]
	}
	return ""
}

// SeriesFromSerial derives a series identifier from a row's own serial
// text: a leading alphabetic run ("WFS" from "WFS 151"), else a W-digits
// prefix ("W-3" from "W-3.1"), else the longest leading non-digit run.
// Returns "" when nothing can be derived.
func SeriesFromSerial(serial string) string {
	s := strings.TrimSpace(serial)
	if s == "" {
		return ""
	}

	if m := leadingAlphaRegex.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := leadingWDigitsRegex.FindStringSubmatch(s); m != nil {
		return "W-" + m[1]
	}
	if m := leadingNonDigitRegex.FindStringSubmatch(s); m != nil {
		run := strings.ToUpper(strings.TrimSpace(m[1]))
		if run != "" && run != "-" {
			return run
		}
	}
	return ""
}

// RowSeries resolves the series for one row: the serial's own series when
// derivable, else the page-level set marker, else empty.
func RowSeries(serial, pageSeries string) string {
	if s := SeriesFromSerial(serial); s != "" {
		return s
	}
	return pageSeries
}
