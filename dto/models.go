package dto

// NumericSentinel marks a numeric field whose value was absent in the
// source table ("", "-", en-dash, em-dash all collapse to it).
const NumericSentinel = "-"

// CanonicalRow is one normalized weight-piece measurement. Numeric fields
// are either NumericSentinel or a decimal gram-valued string preserving the
// precision printed in the certificate.
type CanonicalRow struct {
	SerialNumber  string `json:"serialNumber"`
	NominalValueG string `json:"nominalValueG"`
	ActualBeforeG string `json:"actualBeforeG"`
	ActualAfterG  string `json:"actualAfterG"`
	UncertaintyG  string `json:"uncertaintyG"`
	Series        string `json:"series"`
}

// ExpectedPiece is one declared single-piece count from the narrative
// "Calibration of:" block.
type ExpectedPiece struct {
	NominalG string `json:"nominalG"`
	Count    int    `json:"count"`
}

// ExpectedSet is one declared weight set from the narrative block.
type ExpectedSet struct {
	SetID string `json:"setId"`
	Count int    `json:"count"`
}

// ExpectedCounts holds the counts declared by the certificate's narrative
// text. Built once per document, read-only afterward.
type ExpectedCounts struct {
	SinglePieces []ExpectedPiece `json:"singlePieces"`
	Sets         []ExpectedSet   `json:"sets"`
}

// ObservedCounts is derived from the final deduplicated row list. It is a
// pure function of the rows and is recomputed, never mutated in place.
type ObservedCounts struct {
	SinglePieces map[string]int  `json:"singlePieces"`
	Sets         map[string]bool `json:"sets"`
}

// HeaderMeta is the certificate-level metadata pulled from the full
// document text. Fields are empty strings when not found.
type HeaderMeta struct {
	CertificateNo string `json:"certificateNo"`
	WeightSet     string `json:"weightSet"`
	IssuingLab    string `json:"issuingLab"`
	IssueDate     string `json:"issueDate"`
	ExpiryDate    string `json:"expiryDate"`
}

// RowsExport is the strict row export shape.
type RowsExport struct {
	Rows []CanonicalRow `json:"rows"`
}

// PageTable pairs a raw table with the text of the page it came from; the
// page text is the header hint and set-detection source for its rows.
type PageTable struct {
	Page     int
	Table    [][]string
	PageText string
}

// Diagnostics describes what the pipeline saw, for troubleshooting when
// extraction comes up empty.
type Diagnostics struct {
	DocumentBytes int     `json:"documentBytes"`
	PageCount     int     `json:"pageCount"`
	TextLength    int     `json:"textLength"`
	TablesFound   int     `json:"tablesFound"`
	OCRConfidence float64 `json:"ocrConfidence,omitempty"`
}
