package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPageText = `CALIBRATION RESULTS   Set No. W 3
Serial Number   Nominal Value g   Actual Value g   Uncertainty g
WFS 151         20000             19998.5          0.5
WFS 152         20000             19999.1          0.5
End of page.`

func TestTextLayerBackendExtractsAlignedTables(t *testing.T) {
	doc := &Document{Pages: []PageContent{{Number: 2, Text: resultsPageText}}}

	tables, err := NewTextLayerBackend().Extract(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Page)
	assert.Equal(t, resultsPageText, tables[0].PageText)
	assert.Len(t, tables[0].Table, 3)
	assert.Equal(t, []string{"WFS 151", "20000", "19998.5", "0.5"}, tables[0].Table[1])
}

func TestTextLayerBackendRejectsNarrowTables(t *testing.T) {
	doc := &Document{Pages: []PageContent{{Number: 1, Text: "a  b\nc  d\ne  f"}}}

	tables, err := NewTextLayerBackend().Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

// alignedLines builds a positioned three-column grid the way a vector
// certificate page lays one out.
func alignedLines() []TextLine {
	mkLine := func(y float64, cells ...string) TextLine {
		xs := []float64{50, 200, 350, 480}
		line := TextLine{Y: y}
		for i, cell := range cells {
			line.Words = append(line.Words, Word{X: xs[i], Y: y, W: 40, Size: 10, S: cell})
		}
		return line
	}
	return []TextLine{
		mkLine(700, "Serial Number", "Nominal Value g", "Actual Value g", "Uncertainty g"),
		mkLine(680, "WFS 151", "20000", "19998.5", "0.5"),
		mkLine(660, "WFS 152", "20000", "19999.1", "0.5"),
		mkLine(640, "WFS 153", "20000", "19998.9", "0.5"),
	}
}

func TestVectorBackendGridDetection(t *testing.T) {
	doc := &Document{Pages: []PageContent{{Number: 1, Lines: alignedLines(), Text: "ignored"}}}

	tables, err := NewVectorBackend().Extract(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, tables, 1)
	table := tables[0].Table
	require.Len(t, table, 4)
	assert.Equal(t, []string{"WFS 151", "20000", "19998.5", "0.5"}, table[1])
}

func TestVectorBackendRetriesWithWhitespaceParser(t *testing.T) {
	// no repeated alignment grid, but the reconstructed text still holds
	// a whitespace-aligned table
	doc := &Document{Pages: []PageContent{{Number: 1, Text: resultsPageText}}}

	tables, err := NewVectorBackend().Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Table, 3)
}

type stubRasterizer struct {
	pages []string
	err   error
}

func (s *stubRasterizer) RenderPages(_ context.Context, _, _ string) ([]string, func(), error) {
	return s.pages, func() {}, s.err
}

type stubOCR struct {
	texts       map[string]string
	confidences map[string]float64
}

func (s *stubOCR) ExtractTextAndConfidence(imagePath string) (string, float64, error) {
	name := filepath.Base(imagePath)
	return s.texts[name], s.confidences[name], nil
}

func TestOCRBackendRecoversTablesFromPageImages(t *testing.T) {
	dir := t.TempDir()
	page1 := filepath.Join(dir, "page-1.png")
	require.NoError(t, os.WriteFile(page1, []byte("png"), 0o644))

	backend := NewOCRBackend(
		&stubRasterizer{pages: []string{page1}},
		&stubOCR{texts: map[string]string{"page-1.png": resultsPageText}},
		NewPDFProcessor(),
	)

	tables, err := backend.Extract(context.Background(), &Document{Data: []byte("%PDF"), Key: "k"})
	require.NoError(t, err)

	require.Len(t, tables, 1)
	assert.Equal(t, 1, tables[0].Page)
	assert.Len(t, tables[0].Table, 3)
}

func TestOCRBackendReportsMeanConfidence(t *testing.T) {
	dir := t.TempDir()
	page1 := filepath.Join(dir, "page-1.png")
	page2 := filepath.Join(dir, "page-2.png")
	require.NoError(t, os.WriteFile(page1, []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(page2, []byte("png"), 0o644))

	backend := NewOCRBackend(
		&stubRasterizer{pages: []string{page1, page2}},
		&stubOCR{
			texts:       map[string]string{"page-1.png": "faint scan", "page-2.png": ""},
			confidences: map[string]float64{"page-1.png": 80, "page-2.png": 60},
		},
		NewPDFProcessor(),
	)

	// zero tables recovered, the confidence still tells faint from blank
	tables, err := backend.Extract(context.Background(), &Document{Data: []byte("%PDF"), Key: "k"})
	require.NoError(t, err)
	assert.Empty(t, tables)
	assert.InDelta(t, 70.0, backend.MeanConfidence(), 0.001)
}
