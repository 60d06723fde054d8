package service

import (
	"context"
	"log"
	"time"

	"github.com/caljson/weightcert/dto"
	"github.com/caljson/weightcert/utils"
)

// CertificateService runs the full extraction-and-reconciliation pipeline
// for one certificate document.
type CertificateService struct {
	processor PDFProcessor
	backends  []TableBackend
}

// NewCertificateService wires the processor and the backends. All
// backends are invoked in order (vector, text layer, OCR) and their
// outputs pooled.
func NewCertificateService(processor PDFProcessor, backends []TableBackend) *CertificateService {
	return &CertificateService{processor: processor, backends: backends}
}

// ProcessDocument converts raw certificate PDF bytes into the normalized
// record: header metadata, canonical rows and the reconciliation report.
// Only an unreadable document fails; every other problem degrades to a
// partial result.
func (s *CertificateService) ProcessDocument(ctx context.Context, pdfBytes, schemaBytes []byte) (*dto.ConvertResponse, error) {
	doc, err := s.processor.Open(pdfBytes)
	if err != nil {
		return nil, err
	}

	expected := utils.ParseExpectedCounts(doc.FullText)

	rows, tablesFound, ocrConfidence := s.extractRows(ctx, doc)
	rows = dedupRows(rows)

	observed := utils.ObservedFromRows(rows)
	discrepancies := utils.CompareExpectedObserved(expected, observed)

	header := utils.ExtractHeader(doc.FullText)
	if header.CertificateNo == "" {
		header.CertificateNo = s.certificateNoFromQR(doc)
	}

	resp := &dto.ConvertResponse{
		Header:        header,
		Rows:          rows,
		Discrepancies: discrepancies,
		Diagnostics: dto.Diagnostics{
			DocumentBytes: len(pdfBytes),
			PageCount:     doc.PageCount,
			TextLength:    len(doc.FullText),
			TablesFound:   tablesFound,
			OCRConfidence: ocrConfidence,
		},
		ValidationPassed: true,
		ProcessedAt:      time.Now().Format(time.RFC3339),
	}
	if rows == nil {
		resp.Rows = []dto.CanonicalRow{}
	}
	if discrepancies == nil {
		resp.Discrepancies = []string{}
	}

	if len(schemaBytes) > 0 {
		if err := ValidateAgainstSchema(schemaBytes, dto.RowsExport{Rows: resp.Rows}); err != nil {
			resp.ValidationPassed = false
			resp.ValidationMessage = err.Error()
			log.Printf("Schema validation failed: %v", err)
		}
	}

	return resp, nil
}

// ConfidenceReporter is implemented by backends that can report the OCR
// quality of their last run.
type ConfidenceReporter interface {
	MeanConfidence() float64
}

// extractRows runs every backend in order, pools their tables and builds
// canonical rows. Row-position offsets accumulate per page within one
// backend pass only: a second table on the same set page continues the
// synthesized serial numbering, while identical tables seen by different
// backends produce identical rows for the dedup. The last return is the
// mean OCR word confidence, zero when no backend reported one.
func (s *CertificateService) extractRows(ctx context.Context, doc *Document) ([]dto.CanonicalRow, int, float64) {
	var rows []dto.CanonicalRow
	tablesFound := 0
	ocrConfidence := 0.0

	for _, backend := range s.backends {
		tables, err := backend.Extract(ctx, doc)
		if err != nil {
			log.Printf("Backend %s contributed nothing: %v", backend.Name(), err)
			continue
		}
		log.Printf("Backend %s extracted %d tables", backend.Name(), len(tables))
		tablesFound += len(tables)

		if cr, ok := backend.(ConfidenceReporter); ok {
			ocrConfidence = cr.MeanConfidence()
		}

		offsets := make(map[int]int)
		for _, pt := range tables {
			built, consumed := utils.BuildRows(pt.Table, pt.PageText, offsets[pt.Page])
			rows = append(rows, built...)
			offsets[pt.Page] += consumed
		}
	}
	return rows, tablesFound, ocrConfidence
}

// dedupRows removes full-field duplicates, preserving first-seen order.
func dedupRows(rows []dto.CanonicalRow) []dto.CanonicalRow {
	seen := make(map[dto.CanonicalRow]bool, len(rows))
	var out []dto.CanonicalRow
	for _, row := range rows {
		if seen[row] {
			continue
		}
		seen[row] = true
		out = append(out, row)
	}
	return out
}

// certificateNoFromQR is the last-resort certificate-number source: a QR
// code on an embedded first-page image.
func (s *CertificateService) certificateNoFromQR(doc *Document) string {
	images, err := s.processor.ExtractImages(doc.Data)
	if err != nil || len(images) == 0 {
		return ""
	}
	no, err := decodeCertificateQR(images[0])
	if err != nil {
		return ""
	}
	log.Printf("Certificate number recovered from QR code: %s", no)
	return no
}

// ExportRows renders the strict row export for a processed document.
func ExportRows(rows []dto.CanonicalRow) dto.RowsExport {
	if rows == nil {
		rows = []dto.CanonicalRow{}
	}
	return dto.RowsExport{Rows: rows}
}
