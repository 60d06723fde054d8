package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/caljson/weightcert/dto"
)

// Word is one positioned text fragment from the PDF text layer.
type Word struct {
	X, Y, W float64
	Size    float64
	S       string
}

// TextLine is one baseline-grouped line of words, sorted left to right.
type TextLine struct {
	Y     float64
	Words []Word
}

// PageContent holds a page's positioned text layer plus its reconstructed
// plain text (whitespace-aligned, so column gaps survive).
type PageContent struct {
	Number int
	Lines  []TextLine
	Text   string
}

// Document is the parsed input handed to the extraction backends.
type Document struct {
	Data      []byte
	Key       string // content hash, the page-cache key
	PageCount int
	Pages     []PageContent
	FullText  string
}

type PDFProcessor interface {
	Open(pdfData []byte) (*Document, error)
	ExtractImages(pdfData []byte) ([]image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// Open validates that the bytes are a readable PDF and pulls the text
// layer. An unreadable document is the only hard failure in the pipeline;
// a readable document with no text layer (pure scan) opens fine with
// empty pages.
func (p *pdfProcessor) Open(pdfData []byte) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(pdfData), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrUnreadableDocument, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrUnreadableDocument, err)
	}

	sum := sha256.Sum256(pdfData)
	doc := &Document{
		Data:      pdfData,
		Key:       hex.EncodeToString(sum[:8]),
		PageCount: ctx.PageCount,
	}

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		// text layer unavailable, the OCR backend still has a shot
		log.Printf("Text-layer reader failed, continuing without text layer: %v", err)
		return doc, nil
	}

	var full strings.Builder
	for pageNo := 1; pageNo <= r.NumPage(); pageNo++ {
		page := r.Page(pageNo)
		if page.V.IsNull() {
			continue
		}
		content := pageFromContent(pageNo, page)
		doc.Pages = append(doc.Pages, content)
		full.WriteString(content.Text)
		full.WriteString("\n")
	}
	doc.FullText = full.String()

	return doc, nil
}

// pageFromContent groups the page's positioned fragments into lines and
// reconstructs whitespace-aligned plain text from them.
func pageFromContent(pageNo int, page pdf.Page) PageContent {
	content := page.Content()

	words := make([]Word, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		words = append(words, Word{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}

	lines := groupIntoLines(words)

	var text strings.Builder
	for _, line := range lines {
		text.WriteString(renderLine(line))
		text.WriteString("\n")
	}

	return PageContent{Number: pageNo, Lines: lines, Text: text.String()}
}

const lineTolerance = 2.5

// groupIntoLines buckets words by baseline Y (top of page first) and sorts
// each line left to right.
func groupIntoLines(words []Word) []TextLine {
	if len(words) == 0 {
		return nil
	}

	sort.SliceStable(words, func(i, j int) bool {
		if words[i].Y != words[j].Y {
			return words[i].Y > words[j].Y // PDF origin is bottom-left
		}
		return words[i].X < words[j].X
	})

	var lines []TextLine
	for _, w := range words {
		if len(lines) > 0 && abs(lines[len(lines)-1].Y-w.Y) <= lineTolerance {
			lines[len(lines)-1].Words = append(lines[len(lines)-1].Words, w)
			continue
		}
		lines = append(lines, TextLine{Y: w.Y, Words: []Word{w}})
	}
	for i := range lines {
		sort.SliceStable(lines[i].Words, func(a, b int) bool {
			return lines[i].Words[a].X < lines[i].Words[b].X
		})
	}
	return lines
}

// renderLine joins a line's words, widening gaps larger than a column
// threshold to a multi-space run so downstream column splitting sees them.
func renderLine(line TextLine) string {
	var b strings.Builder
	var prevEnd float64
	for i, w := range line.Words {
		if i > 0 {
			gap := w.X - prevEnd
			switch {
			case gap > columnGap(w):
				b.WriteString("   ")
			case gap > 0.5:
				b.WriteString(" ")
			}
		}
		b.WriteString(w.S)
		prevEnd = w.X + w.W
	}
	return b.String()
}

// columnGap is the horizontal gap treated as a cell boundary.
func columnGap(w Word) float64 {
	if w.Size > 0 {
		return w.Size * 1.2
	}
	return 10
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ExtractImages pulls embedded page images out of the PDF, the fallback
// input for OCR when no rasterizer is available (typical for certificates
// scanned to one full-page image per page).
func (p *pdfProcessor) ExtractImages(pdfData []byte) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "weightcert-images-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "cert-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	// extracted files are named <base>_<page>_<resource>.<ext>; ReadDir is
	// lexicographic, so page 10 would sort before page 2
	var names []string
	for _, file := range files {
		if !file.IsDir() {
			names = append(names, file.Name())
		}
	}
	sortExtractedImageNames(names)

	var images []image.Image
	for _, name := range names {
		imgFile, err := os.Open(filepath.Join(tempDir, name))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	return images, nil
}

var extractedPageRegex = regexp.MustCompile(`_(\d+)_`)

// sortExtractedImageNames orders extracted image file names by page number,
// then by name for images sharing a page.
func sortExtractedImageNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		pi, pj := extractedPageNumber(names[i]), extractedPageNumber(names[j])
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
}

// extractedPageNumber pulls the page number out of an extracted image file
// name, -1 when the name does not carry one.
func extractedPageNumber(name string) int {
	m := extractedPageRegex.FindStringSubmatch(name)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}
