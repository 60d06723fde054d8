package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"WFS 151", "20000", "19998.5", "0.5"},
		SplitColumns("WFS 151   20000    19998.5   0.5"))
	assert.Equal(t, []string{"a", "b", "c"}, SplitColumns("a\tb\tc"))
	assert.Nil(t, SplitColumns("   "))
}

func TestTablesFromText(t *testing.T) {
	pageText := `CALIBRATION RESULTS
Set No. W 3

Serial Number   Nominal Value g   Actual Value g   Uncertainty g
WFS 151         20000             19998.5          0.5
WFS 152         20000             19999.1          0.5

End of page narrative with no alignment.`

	tables := TablesFromText(pageText)

	assert.Len(t, tables, 1)
	assert.Len(t, tables[0], 3)
	assert.Equal(t, []string{"WFS 151", "20000", "19998.5", "0.5"}, tables[0][1])
}

func TestTablesFromTextIgnoresNarrowRuns(t *testing.T) {
	// two-cell lines never form a table: the detector segmented noise
	tables := TablesFromText("label  value\nother  thing\n")
	assert.Empty(t, tables)
}
