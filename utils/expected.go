package utils

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/caljson/weightcert/dto"
)

// section markers that end the "Calibration of:" declaration block
var declarationEndMarkers = []string{
	"results:",
	"table:",
	"validity",
	"uncertainty",
	"traceability",
	"date of calibration",
	"date issued",
}

var (
	calibrationOfRegex = regexp.MustCompile(`(?i)calibration\s+of\s*:`)

	// "7 x 1 kg", "3 × 500 g"
	pieceCountRegex = regexp.MustCompile(`(?i)(\d+)\s*[x×]\s*([\d.,]+)\s*(kg|g)\b`)
	// "2 x Set No. W 3"
	setCountRegex = regexp.MustCompile(`(?i)(\d+)\s*[x×]\s*set[^\n,;]*?W[-\s]?(\d+)`)
	// bare "Set No. W 3" mention
	setMentionRegex = regexp.MustCompile(`(?i)\bset\s*(?:no\.?\s*)?W[-\s]?(\d+)`)

	setSuffixRegex = regexp.MustCompile(`(\d+)$`)
)

// declarationBlock locates the text following "Calibration of:" and
// truncates it at the first section marker, so counting never scans into
// results tables or traceability boilerplate. Without the marker the whole
// text is scanned (degraded mode).
func declarationBlock(fullText string) string {
	block := fullText
	if loc := calibrationOfRegex.FindStringIndex(fullText); loc != nil {
		block = fullText[loc[1]:]
	}

	low := strings.ToLower(block)
	cut := len(block)
	for _, marker := range declarationEndMarkers {
		if idx := strings.Index(low, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return block[:cut]
}

// ParseExpectedCounts scans the document's narrative text for the declared
// single-piece counts ("7 x 1 kg") and weight-set identifiers ("Set No.
// W 3"), the ground truth the extracted rows are reconciled against.
func ParseExpectedCounts(fullText string) dto.ExpectedCounts {
	block := declarationBlock(fullText)
	expected := dto.ExpectedCounts{}

	for _, m := range pieceCountRegex.FindAllStringSubmatch(block, -1) {
		count, err := strconv.Atoi(m[1])
		if err != nil || count <= 0 {
			continue
		}
		nominal := CleanNumeric(m[2])
		if strings.EqualFold(m[3], "kg") {
			nominal = ToGrams(m[2], "(kg)")
		}
		if nominal == dto.NumericSentinel {
			continue
		}
		expected.SinglePieces = append(expected.SinglePieces, dto.ExpectedPiece{
			NominalG: nominal,
			Count:    count,
		})
	}

	seen := make(map[string]bool)
	for _, m := range setCountRegex.FindAllStringSubmatch(block, -1) {
		count, err := strconv.Atoi(m[1])
		if err != nil || count <= 0 {
			continue
		}
		id := "W-" + m[2]
		if seen[id] {
			continue
		}
		seen[id] = true
		expected.Sets = append(expected.Sets, dto.ExpectedSet{SetID: id, Count: count})
	}

	// every bare mention counts once
	for _, m := range setMentionRegex.FindAllStringSubmatch(block, -1) {
		id := "W-" + m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		expected.Sets = append(expected.Sets, dto.ExpectedSet{SetID: id, Count: 1})
	}

	sort.SliceStable(expected.Sets, func(i, j int) bool {
		return setSuffix(expected.Sets[i].SetID) < setSuffix(expected.Sets[j].SetID)
	})

	return expected
}

func setSuffix(id string) int {
	m := setSuffixRegex.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
