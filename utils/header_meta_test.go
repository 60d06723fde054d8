package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleCertText = `ON-SITE CALIBRATION CERTIFICATE
Certificate No. CM-25-181B
CM LAB (Pty) Ltd
Calibration of: 7 x 20 kg test weights, Set No. W 3
Calibration Date: 2025-02-10
Date of Issue: 2025-02-12
Date of Expiry: 2026-02-12
`

func TestExtractHeader(t *testing.T) {
	meta := ExtractHeader(sampleCertText)

	assert.Equal(t, "CM-25-181B", meta.CertificateNo)
	assert.Equal(t, "CM LAB (Pty) Ltd", meta.IssuingLab)
	assert.Equal(t, "2025-02-12", meta.IssueDate)
	assert.Equal(t, "2026-02-12", meta.ExpiryDate)
	assert.Equal(t, "7 x 20 kg test weights, Set No. W 3", meta.WeightSet)
}

func TestExtractHeaderDateAlternatives(t *testing.T) {
	meta := ExtractHeader("Date of Issue: 5 March 2025\nDate of Expiry: 5/3/2026")

	assert.Equal(t, "5 March 2025", meta.IssueDate)
	assert.Equal(t, "5/3/2026", meta.ExpiryDate)
}

func TestExtractHeaderWOWSetFallback(t *testing.T) {
	meta := ExtractHeader("scanned banner page\nSET WOW S 02\nno narrative block")

	assert.Equal(t, "WOW-S2", meta.WeightSet)
}

func TestExtractHeaderDefaultsEmpty(t *testing.T) {
	meta := ExtractHeader("completely unrelated text")

	assert.Equal(t, "", meta.CertificateNo)
	assert.Equal(t, "", meta.WeightSet)
	assert.Equal(t, "", meta.IssuingLab)
	assert.Equal(t, "", meta.IssueDate)
	assert.Equal(t, "", meta.ExpiryDate)
}
