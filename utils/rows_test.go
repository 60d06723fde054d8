package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRowsSynthesizesSerialFromSetContext(t *testing.T) {
	table := [][]string{
		{"Serial Number", "Nominal Value g", "Actual Value g", "Uncertainty ± g"},
		{"-", "20000", "19998.5", "0.5"},
	}

	rows, _ := BuildRows(table, "measurement results for Set No. W 3", 0)

	assert.Len(t, rows, 1)
	assert.Equal(t, "W-3.1", rows[0].SerialNumber)
	assert.Equal(t, "W-3", rows[0].Series)
	assert.Equal(t, "20000", rows[0].NominalValueG)
	assert.Equal(t, "-", rows[0].ActualBeforeG) // single actual column, no before value
	assert.Equal(t, "19998.5", rows[0].ActualAfterG)
	assert.Equal(t, "0.5", rows[0].UncertaintyG)
}

func TestBuildRowsKilogramColumns(t *testing.T) {
	table := [][]string{
		{"Serial Number", "Nominal Value (kg)", "Actual Value (kg)", "Uncertainty (kg)"},
		{"WFS 151", "20", "19,9985", "0,0005"},
	}

	rows, _ := BuildRows(table, "", 0)

	assert.Len(t, rows, 1)
	assert.Equal(t, "WFS 151", rows[0].SerialNumber)
	assert.Equal(t, "WFS", rows[0].Series)
	assert.Equal(t, "20000", rows[0].NominalValueG)
	assert.Equal(t, "19998.5", rows[0].ActualAfterG)
	assert.Equal(t, "0.5", rows[0].UncertaintyG) // kg hint from the uncertainty header
}

func TestBuildRowsSkipsEmbeddedHeaderEcho(t *testing.T) {
	table := [][]string{
		{"Serial Number", "Nominal Value g", "Actual Value g", "Uncertainty g"},
		{"WFS 1", "20000", "19999", "0.5"},
		{"Serial Number", "Nominal Value g", "Actual Value g", "Uncertainty g"},
		{"WFS 2", "20000", "19998", "0.5"},
	}

	rows, _ := BuildRows(table, "", 0)

	assert.Len(t, rows, 2)
	assert.Equal(t, "WFS 1", rows[0].SerialNumber)
	assert.Equal(t, "WFS 2", rows[1].SerialNumber)
}

func TestBuildRowsDropsBlankRowWithoutSetContext(t *testing.T) {
	table := [][]string{
		{"Serial Number", "Nominal Value g", "Actual Value g", "Uncertainty g"},
		{"-", "1000", "999.8", "0.1"},
		{"None", "500", "499.9", "0.1"},
	}

	rows, _ := BuildRows(table, "no set marker here", 0)
	assert.Empty(t, rows)
}

func TestBuildRowsConsumedCountsSkippedRows(t *testing.T) {
	// first table on a set page: one blank-serial row, one header echo
	first := [][]string{
		{"Serial Number", "Nominal Value g", "Actual Value g", "Uncertainty g"},
		{"-", "1000", "999.9", "0.1"},
		{"Serial Number", "Nominal Value g", "Actual Value g", "Uncertainty g"},
	}
	second := [][]string{
		{"Serial Number", "Nominal Value g", "Actual Value g", "Uncertainty g"},
		{"-", "500", "499.95", "0.05"},
	}

	rows, consumed := BuildRows(first, "Set No. W 4", 0)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, consumed) // the header echo still occupies a position
	assert.Equal(t, "W-4.1", rows[0].SerialNumber)

	// numbering for the next table continues from the consumed count
	more, _ := BuildRows(second, "Set No. W 4", consumed)
	assert.Len(t, more, 1)
	assert.Equal(t, "W-4.3", more[0].SerialNumber)
}

func TestBuildRowsHeaderlessTableUsesPositionalLabels(t *testing.T) {
	// three-column set page: nominal / actual / uncertainty, serial implied
	table := [][]string{
		{"1000", "999,9", "0,1"},
		{"500", "499,95", "0,05"},
	}

	rows, _ := BuildRows(table, "Set No. W 2", 5)

	assert.Len(t, rows, 2)
	assert.Equal(t, "W-2.6", rows[0].SerialNumber) // offset shifts the position
	assert.Equal(t, "W-2.7", rows[1].SerialNumber)
	assert.Equal(t, "W-2", rows[0].Series)
	assert.Equal(t, "1000", rows[0].NominalValueG)
	assert.Equal(t, "999.9", rows[0].ActualAfterG)
}
