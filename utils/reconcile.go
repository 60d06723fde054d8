package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/caljson/weightcert/dto"
)

// series shapes that mark a row as belonging to a weight set
var setSeriesRegex = regexp.MustCompile(`(?i)^(w-?\d+|wow-s\d+)$`)

// ObservedFromRows classifies the final row list into per-nominal
// single-piece tallies and the collection of observed set series. Rows
// whose series matches a set shape contribute their series; remaining rows
// with a real nominal value increment the tally for that nominal.
func ObservedFromRows(rows []dto.CanonicalRow) dto.ObservedCounts {
	observed := dto.ObservedCounts{
		SinglePieces: make(map[string]int),
		Sets:         make(map[string]bool),
	}

	for _, row := range rows {
		series := strings.ReplaceAll(row.Series, " ", "")
		if setSeriesRegex.MatchString(series) {
			observed.Sets[strings.ToUpper(series)] = true
			continue
		}
		if row.NominalValueG == dto.NumericSentinel {
			continue
		}
		if _, err := strconv.ParseFloat(row.NominalValueG, 64); err != nil {
			continue
		}
		observed.SinglePieces[row.NominalValueG]++
	}

	return observed
}

// CompareExpectedObserved diffs the narrative declarations against the
// observed counts and renders one human-readable line per mismatch. Sets
// are checked for presence only; their internal piece counts are not
// cross-checked.
func CompareExpectedObserved(expected dto.ExpectedCounts, observed dto.ObservedCounts) []string {
	var discrepancies []string

	for _, piece := range expected.SinglePieces {
		got := observed.SinglePieces[piece.NominalG]
		if got != piece.Count {
			discrepancies = append(discrepancies, fmt.Sprintf(
				"Single pieces of %s g: expected %d, observed %d",
				piece.NominalG, piece.Count, got))
		}
	}

	for _, set := range expected.Sets {
		key := strings.ToUpper(strings.ReplaceAll(set.SetID, " ", ""))
		if !observed.Sets[key] {
			discrepancies = append(discrepancies, fmt.Sprintf(
				"Set %s declared in certificate text but missing from extracted tables", set.SetID))
		}
	}

	return discrepancies
}
