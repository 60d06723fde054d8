package utils

import (
	"regexp"
	"strings"
)

// cell boundary in plain text: two or more spaces, or a tab
var cellSplitRegex = regexp.MustCompile(`\t|\s{2,}`)

// MinTableColumns is the acceptance floor for a detected table. Fewer
// columns means the detector segmented noise, not a weight table.
const MinTableColumns = 3

// SplitColumns splits one text line into cells on runs of two or more
// spaces (or tabs), the alignment convention of text-layer and OCR output.
func SplitColumns(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	parts := cellSplitRegex.Split(trimmed, -1)
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}

// TablesFromText recovers table structures from whitespace-aligned page
// text. A table is a maximal run of consecutive lines that each split into
// at least MinTableColumns cells; shorter runs and prose lines are ignored.
func TablesFromText(pageText string) [][][]string {
	var tables [][][]string
	var current [][]string

	flush := func() {
		if len(current) > 0 {
			tables = append(tables, current)
			current = nil
		}
	}

	for _, line := range strings.Split(pageText, "\n") {
		cells := SplitColumns(line)
		if len(cells) >= MinTableColumns {
			current = append(current, cells)
			continue
		}
		flush()
	}
	flush()

	return tables
}
