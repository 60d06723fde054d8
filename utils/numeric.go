package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/caljson/weightcert/dto"
)

var (
	// space or comma used as a thousands separator: followed by exactly
	// three digits and then a non-digit or end of string
	thousandsSepRegex = regexp.MustCompile(`[ ,](\d{3})(\D|$)`)
	nonNumericRegex   = regexp.MustCompile(`[^0-9.\-]`)
)

// dash variants that certificates print for "no value"
var dashVariants = []string{"-", "–", "—", "‒", "--"}

// CleanNumeric converts a raw printed numeric string into a canonical
// decimal string. Locale-ambiguous thousands separators (space, comma,
// secondary dots) are removed and decimal commas become decimal points.
// Blank and dash-only inputs collapse to the sentinel "-". It never fails:
// anything unrecognizable comes back cleaned as far as possible.
func CleanNumeric(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "") // non-breaking space
	s = strings.ReplaceAll(s, " ", "")

	if s == "" {
		return dto.NumericSentinel
	}
	for _, d := range dashVariants {
		if s == d {
			return dto.NumericSentinel
		}
	}

	// Remove thousands separators. Repeat so "1 234 567" collapses fully:
	// the regex consumes the delimiter after each group.
	for {
		out := thousandsSepRegex.ReplaceAllString(s, "$1$2")
		if out == s {
			break
		}
		s = out
	}

	s = strings.ReplaceAll(s, ",", ".")
	s = nonNumericRegex.ReplaceAllString(s, "")

	// More than one dot left means earlier dots were thousands separators
	// ("20.000.50" -> "20000.50"): the last one is the decimal point.
	if strings.Count(s, ".") > 1 {
		parts := strings.Split(s, ".")
		s = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}

	if s == "" {
		return dto.NumericSentinel
	}
	return s
}

// kilogram markers looked for in column-header hint strings
var kgHints = []string{" kg", "(kg", "in kg"}

// ToGrams cleans a raw numeric string and converts it to grams when the
// unit hint indicates kilograms. Grams is the default when no hint matches.
// Unparseable values are returned cleaned but unconverted (fail-soft).
func ToGrams(raw, unitHint string) string {
	cleaned := CleanNumeric(raw)
	if cleaned == dto.NumericSentinel {
		return cleaned
	}

	hint := strings.ToLower(unitHint)
	isKg := false
	for _, marker := range kgHints {
		if strings.Contains(hint, marker) {
			isKg = true
			break
		}
	}
	if !isKg {
		return cleaned
	}

	if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
		return cleaned
	}
	return shiftDecimal(cleaned, 3)
}

// shiftDecimal multiplies a decimal string by 10^places without going
// through floating point, so printed precision survives the kg to g
// conversion exactly. Trailing zeros after the point and a trailing point
// are trimmed.
func shiftDecimal(s string, places int) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	for len(fracPart) < places {
		fracPart += "0"
	}
	intPart += fracPart[:places]
	fracPart = fracPart[places:]

	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	fracPart = strings.TrimRight(fracPart, "0")

	if fracPart == "" {
		return sign + intPart
	}
	return sign + intPart + "." + fracPart
}
