package service

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"sort"

	"github.com/caljson/weightcert/dto"
	"github.com/caljson/weightcert/utils"
)

// TableBackend is one table-extraction strategy. Backends are tried in a
// fixed order and their outputs pooled; a failing backend contributes an
// empty result, it never aborts the pipeline.
type TableBackend interface {
	Name() string
	Extract(ctx context.Context, doc *Document) ([]dto.PageTable, error)
}

// acceptTable enforces the minimum-column guard on a raw table.
func acceptTable(table [][]string) bool {
	if len(table) == 0 {
		return false
	}
	for _, row := range table {
		if len(row) >= utils.MinTableColumns {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Vector backend: alignment-grid parsing of the positioned text layer,
// retrying with plain whitespace-alignment when the grid finds nothing.

type VectorBackend struct{}

func NewVectorBackend() *VectorBackend { return &VectorBackend{} }

func (b *VectorBackend) Name() string { return "vector" }

func (b *VectorBackend) Extract(_ context.Context, doc *Document) ([]dto.PageTable, error) {
	var results []dto.PageTable

	for _, page := range doc.Pages {
		for _, table := range gridTables(page.Lines) {
			if acceptTable(table) {
				results = append(results, dto.PageTable{Page: page.Number, Table: table, PageText: page.Text})
			}
		}
	}
	if len(results) > 0 {
		return results, nil
	}

	// no aligned grid anywhere: retry with the less structured
	// whitespace parser over the reconstructed text
	for _, page := range doc.Pages {
		for _, table := range utils.TablesFromText(page.Text) {
			if acceptTable(table) {
				results = append(results, dto.PageTable{Page: page.Number, Table: table, PageText: page.Text})
			}
		}
	}
	return results, nil
}

const boundaryTolerance = 5.0

// gridTables reconstructs tables from column alignment: word start
// positions that repeat across at least three lines form the column grid,
// and consecutive lines populating that grid become table rows.
func gridTables(lines []TextLine) [][][]string {
	boundaries := columnBoundaries(lines)
	if len(boundaries) < utils.MinTableColumns {
		return nil
	}

	var tables [][][]string
	var current [][]string

	flush := func() {
		if len(current) >= 2 { // a lone aligned line is not a table
			tables = append(tables, current)
		}
		current = nil
	}

	for _, line := range lines {
		row := rowFromBoundaries(line, boundaries)
		filled := 0
		for _, cell := range row {
			if cell != "" {
				filled++
			}
		}
		if filled >= utils.MinTableColumns {
			current = append(current, row)
			continue
		}
		flush()
	}
	flush()

	return tables
}

// columnBoundaries clusters word start X positions and keeps clusters
// supported by three or more lines.
func columnBoundaries(lines []TextLine) []float64 {
	type cluster struct {
		x     float64
		count int
	}
	var clusters []cluster

	for _, line := range lines {
		for _, w := range line.Words {
			placed := false
			for i := range clusters {
				if abs(clusters[i].x-w.X) <= boundaryTolerance {
					clusters[i].count++
					placed = true
					break
				}
			}
			if !placed {
				clusters = append(clusters, cluster{x: w.X, count: 1})
			}
		}
	}

	var boundaries []float64
	for _, c := range clusters {
		if c.count >= 3 {
			boundaries = append(boundaries, c.x)
		}
	}
	sort.Float64s(boundaries)
	return boundaries
}

// rowFromBoundaries assigns each word of a line to the rightmost boundary
// at or left of its start position, concatenating words that share a cell.
func rowFromBoundaries(line TextLine, boundaries []float64) []string {
	row := make([]string, len(boundaries))
	for _, w := range line.Words {
		idx := 0
		for i, bx := range boundaries {
			if w.X >= bx-boundaryTolerance {
				idx = i
			}
		}
		if row[idx] == "" {
			row[idx] = w.S
		} else {
			row[idx] += " " + w.S
		}
	}
	return row
}

// ---------------------------------------------------------------------------
// Text-layer backend: whitespace-aligned table structures straight from
// each page's reconstructed text.

type TextLayerBackend struct{}

func NewTextLayerBackend() *TextLayerBackend { return &TextLayerBackend{} }

func (b *TextLayerBackend) Name() string { return "text-layer" }

func (b *TextLayerBackend) Extract(_ context.Context, doc *Document) ([]dto.PageTable, error) {
	var results []dto.PageTable
	for _, page := range doc.Pages {
		for _, table := range utils.TablesFromText(page.Text) {
			if acceptTable(table) {
				results = append(results, dto.PageTable{Page: page.Number, Table: table, PageText: page.Text})
			}
		}
	}
	return results, nil
}

// ---------------------------------------------------------------------------
// OCR backend: rasterize each page, OCR it, and recover table structure
// from the OCR text. The fallback of last resort, but always invoked; a
// certificate can mix vector pages with scanned ones.

// OCREngine is the narrow OCR contract: image file in, text plus mean
// word confidence out. Confidence zero means the engine reported none.
type OCREngine interface {
	ExtractTextAndConfidence(imagePath string) (string, float64, error)
}

// PageRasterizer renders a PDF to one image file per page.
type PageRasterizer interface {
	RenderPages(ctx context.Context, pdfPath, docKey string) ([]string, func(), error)
}

type OCRBackend struct {
	raster    PageRasterizer
	ocr       OCREngine
	processor PDFProcessor

	meanConfidence float64
}

func NewOCRBackend(raster PageRasterizer, ocr OCREngine, processor PDFProcessor) *OCRBackend {
	return &OCRBackend{raster: raster, ocr: ocr, processor: processor}
}

func (b *OCRBackend) Name() string { return "ocr" }

func (b *OCRBackend) Extract(ctx context.Context, doc *Document) ([]dto.PageTable, error) {
	pagePaths, cleanup, err := b.renderToImages(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var results []dto.PageTable
	var confSum float64
	confPages := 0
	for i, imgPath := range pagePaths {
		pageNo := i + 1
		text, conf, err := b.ocr.ExtractTextAndConfidence(imgPath)
		if err != nil {
			log.Printf("OCR failed for page %d: %v", pageNo, err)
			continue
		}
		if conf > 0 {
			confSum += conf
			confPages++
		}
		for _, table := range utils.TablesFromText(text) {
			if acceptTable(table) {
				results = append(results, dto.PageTable{Page: pageNo, Table: table, PageText: text})
			}
		}
	}
	b.meanConfidence = 0
	if confPages > 0 {
		b.meanConfidence = confSum / float64(confPages)
	}
	return results, nil
}

// MeanConfidence reports the mean word confidence across the pages of the
// last Extract run. It distinguishes a blank scan from an unreadable one
// when extraction finds no rows.
func (b *OCRBackend) MeanConfidence() float64 { return b.meanConfidence }

// renderToImages rasterizes via pdftoppm, degrading to the PDF's embedded
// page images when the rasterizer is unavailable.
func (b *OCRBackend) renderToImages(ctx context.Context, doc *Document) ([]string, func(), error) {
	tempPDF, err := os.CreateTemp("", "cert-*.pdf")
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to create temp pdf: %w", err)
	}
	if _, err := tempPDF.Write(doc.Data); err != nil {
		tempPDF.Close()
		os.Remove(tempPDF.Name())
		return nil, func() {}, fmt.Errorf("failed to write temp pdf: %w", err)
	}
	tempPDF.Close()
	removePDF := func() { os.Remove(tempPDF.Name()) }

	paths, cleanup, err := b.raster.RenderPages(ctx, tempPDF.Name(), doc.Key)
	if err == nil {
		return paths, func() { cleanup(); removePDF() }, nil
	}
	removePDF()
	log.Printf("Rasterizer unavailable (%v), falling back to embedded page images", err)

	images, imgErr := b.processor.ExtractImages(doc.Data)
	if imgErr != nil || len(images) == 0 {
		return nil, func() {}, fmt.Errorf("no page images available: raster: %v, embedded: %v", err, imgErr)
	}

	dir, dirErr := os.MkdirTemp("", "weightcert-ocr-*")
	if dirErr != nil {
		return nil, func() {}, fmt.Errorf("failed to create temp dir: %w", dirErr)
	}
	var paths2 []string
	for _, img := range images {
		p, saveErr := saveImagePNG(dir, img, len(paths2)+1)
		if saveErr != nil {
			log.Printf("Failed to save embedded image for OCR: %v", saveErr)
			continue
		}
		paths2 = append(paths2, p)
	}
	return paths2, func() { os.RemoveAll(dir) }, nil
}

func saveImagePNG(dir string, img image.Image, pageNo int) (string, error) {
	f, err := os.Create(fmt.Sprintf("%s/page-%d.png", dir, pageNo))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return f.Name(), nil
}
