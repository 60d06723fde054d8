package utils

import (
	"fmt"
	"strings"

	"github.com/caljson/weightcert/dto"
)

// keywords whose presence in the first row marks it as a header row
var headerKeywords = []string{"serial", "nominal", "actual", "uncertainty", "identification"}

// IsHeaderRow reports whether any cell of the row contains a known column
// keyword, case-insensitive.
func IsHeaderRow(row []string) bool {
	for _, cell := range row {
		low := strings.ToLower(cell)
		for _, kw := range headerKeywords {
			if strings.Contains(low, kw) {
				return true
			}
		}
	}
	return false
}

// positionalLabels synthesizes column labels for a headerless table. The
// common layouts are serial/nominal/actual/uncertainty (4+ columns) and
// nominal/actual/uncertainty (3 columns, set pages where the serial is
// implied by the set context).
func positionalLabels(width int) []string {
	var names []string
	switch {
	case width <= 3:
		names = []string{"Nominal Value", "Actual Value", "Uncertainty"}
	case width == 4:
		names = []string{"Serial Number", "Nominal Value", "Actual Value", "Uncertainty"}
	default:
		names = []string{"Serial Number", "Nominal Value", "Actual Value Before", "Actual Value After", "Uncertainty"}
	}
	labels := make([]string, width)
	for i := range labels {
		if i < len(names) {
			labels[i] = names[i]
		} else {
			labels[i] = fmt.Sprintf("Column %d", i+1)
		}
	}
	return labels
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankSerial(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" || strings.EqualFold(t, "none") {
		return true
	}
	for _, d := range dashVariants {
		if t == d {
			return true
		}
	}
	return false
}

// BuildRows converts one raw table plus its source page text into
// canonical rows. The page text supplies the set context used to infer
// serial numbers for blank-serial rows; offset shifts the 1-based row
// positions used for those synthesized serials (callers pass the number of
// data rows already consumed from the same page). The second return is the
// number of data rows this table consumed, skipped rows included, which is
// the offset increment for the next table on the same page.
func BuildRows(table [][]string, pageText string, offset int) ([]dto.CanonicalRow, int) {
	if len(table) == 0 {
		return nil, 0
	}

	var labels []string
	data := table
	if IsHeaderRow(table[0]) {
		labels = table[0]
		data = table[1:]
	} else {
		labels = positionalLabels(len(table[0]))
	}

	mapped := MapHeaders(labels)
	serialIdx := ColumnIndex(labels, mapped, FieldSerial)
	nominalIdx := ColumnIndex(labels, mapped, FieldNominal)
	beforeIdx := ColumnIndex(labels, mapped, FieldActualBefore)
	afterIdx := ColumnIndex(labels, mapped, FieldActualAfter)
	uncIdx := ColumnIndex(labels, mapped, FieldUncertainty)

	// unit detection hint: the nominal and actual column labels combined
	unitHint := mapped[FieldNominal] + " " + mapped[FieldActual]
	uncLabel := strings.ToLower(mapped[FieldUncertainty])

	pageSeries := DetectSetSeries(pageText)

	var rows []dto.CanonicalRow
	for i, raw := range data {
		serial := strings.TrimSpace(cellAt(raw, serialIdx))

		// header rows repeated mid-table on later pages
		low := strings.ToLower(serial)
		if strings.Contains(low, "serial") || strings.Contains(low, "identification") {
			continue
		}

		if isBlankSerial(serial) {
			if pageSeries == "" {
				// no recoverable identity, the row carries no information
				continue
			}
			serial = fmt.Sprintf("%s.%d", pageSeries, i+1+offset)
		}

		uncertainty := CleanNumeric(cellAt(raw, uncIdx))
		if strings.Contains(uncLabel, "kg") {
			uncertainty = ToGrams(cellAt(raw, uncIdx), "(kg)")
		}

		rows = append(rows, dto.CanonicalRow{
			SerialNumber:  serial,
			NominalValueG: ToGrams(cellAt(raw, nominalIdx), unitHint),
			ActualBeforeG: ToGrams(cellAt(raw, beforeIdx), unitHint),
			ActualAfterG:  ToGrams(cellAt(raw, afterIdx), unitHint),
			UncertaintyG:  uncertainty,
			Series:        RowSeries(serial, pageSeries),
		})
	}
	return rows, len(data)
}
