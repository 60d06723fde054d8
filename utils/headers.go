package utils

import "strings"

// Canonical column fields of a weight-certificate table.
const (
	FieldSerial       = "serial"
	FieldNominal      = "nominal"
	FieldActual       = "actual"
	FieldActualBefore = "actual_before"
	FieldActualAfter  = "actual_after"
	FieldUncertainty  = "uncertainty"
)

// headerSynonyms is the trial-ordered synonym table. For each canonical
// field the synonyms are tried in order against the lowercased labels;
// the first label containing a synonym wins and the scan stops.
var headerSynonyms = []struct {
	field    string
	synonyms []string
}{
	{FieldSerial, []string{"serial", "identification", "ident no", "id no", "weight no", "piece no"}},
	{FieldNominal, []string{"nominal", "denomination", "nominel", "nennwert"}},
	{FieldActual, []string{"actual", "conventional mass", "measured value", "istwert"}},
	{FieldActualBefore, []string{"before"}},
	{FieldActualAfter, []string{"after"}},
	{FieldUncertainty, []string{"uncertain", "±", "unsicherheit", "mpe"}},
}

// MapHeaders maps arbitrary column labels onto the canonical field set.
// The result maps canonical field -> original label; unmapped fields are
// absent. When a certificate reports only a single "actual value" column,
// actual_after aliases to it; actual_before never does.
func MapHeaders(labels []string) map[string]string {
	lowered := make([]string, len(labels))
	for i, l := range labels {
		lowered[i] = strings.ToLower(l)
	}

	mapped := make(map[string]string)
	for _, entry := range headerSynonyms {
	scan:
		for _, syn := range entry.synonyms {
			for i, low := range lowered {
				if strings.Contains(low, syn) {
					mapped[entry.field] = labels[i]
					break scan
				}
			}
		}
	}

	if _, ok := mapped[FieldActualAfter]; !ok {
		if actual, ok := mapped[FieldActual]; ok {
			mapped[FieldActualAfter] = actual
		}
	}

	return mapped
}

// ColumnIndex returns the index of the column whose label equals the
// mapped label for field, or -1 when the field is unmapped.
func ColumnIndex(labels []string, mapped map[string]string, field string) int {
	label, ok := mapped[field]
	if !ok {
		return -1
	}
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
