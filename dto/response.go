package dto

import "errors"

// Custom errors
var (
	ErrNoDocument         = errors.New("no certificate document provided")
	ErrUnreadableDocument = errors.New("certificate document is not a readable PDF")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ConvertResponse is the final response structure. Header, Rows and
// Discrepancies form the extracted record; ValidationPassed, Diagnostics
// and ProcessedAt sit on the envelope and never enter the record.
type ConvertResponse struct {
	Header            HeaderMeta     `json:"header"`
	Rows              []CanonicalRow `json:"rows"`
	Discrepancies     []string       `json:"discrepancies"`
	ValidationPassed  bool           `json:"validationPassed"`
	ValidationMessage string         `json:"validationMessage,omitempty"`
	Diagnostics       Diagnostics    `json:"diagnostics"`
	ProcessedAt       string         `json:"processedAt"`
}
