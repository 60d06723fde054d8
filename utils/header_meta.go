package utils

import (
	"regexp"
	"strings"

	"github.com/caljson/weightcert/dto"
)

// date alternatives accepted across certificate layouts:
// "5 Mar 2025", "2025-03-05", "5/3/2025"
const datePattern = `(\d{1,2}\s+[A-Za-z]{3,9}\.?\s+\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})`

var (
	certificateNoRegex = regexp.MustCompile(`(?i)certificate\s+no\.?\s*:?\s*([A-Z0-9][A-Z0-9/ \-]*)`)
	issueDateRegex     = regexp.MustCompile(`(?i)date\s+of\s+issue\s*:?\s*` + datePattern)
	expiryDateRegex    = regexp.MustCompile(`(?i)date\s+of\s+expiry\s*:?\s*` + datePattern)
	wowSetRegex        = regexp.MustCompile(`(?i)\bset\s+wow\s*s\s*0*(\d+)`)
)

// fragments of known issuing laboratories; the matched line (from the
// fragment onward) becomes the lab name
var knownLabFragments = []string{
	"CM LAB",
	"SANAS ACCREDITED LABORATORY",
	"CALIBRATION SERVICES",
}

// keywords that terminate the weight-set description following the
// "Calibration of:" anchor
var weightSetEndKeywords = []string{
	"calibration date",
	"contact details",
	"date of issue",
	"serial",
	"results:",
	"table:",
	"\n",
}

// ExtractHeader pulls certificate-level metadata out of the concatenated
// document text with anchored patterns. Every field defaults to the empty
// string; extraction never fails.
func ExtractHeader(fullText string) dto.HeaderMeta {
	meta := dto.HeaderMeta{}

	if m := certificateNoRegex.FindStringSubmatch(fullText); m != nil {
		meta.CertificateNo = strings.TrimSpace(m[1])
	}

	meta.WeightSet = weightSetDescription(fullText)

	low := strings.ToLower(fullText)
	for _, frag := range knownLabFragments {
		idx := strings.Index(low, strings.ToLower(frag))
		if idx < 0 {
			continue
		}
		line := fullText[idx:]
		if nl := strings.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
		}
		meta.IssuingLab = strings.TrimSpace(line)
		break
	}

	if m := issueDateRegex.FindStringSubmatch(fullText); m != nil {
		meta.IssueDate = strings.TrimSpace(m[1])
	}
	if m := expiryDateRegex.FindStringSubmatch(fullText); m != nil {
		meta.ExpiryDate = strings.TrimSpace(m[1])
	}

	// scanned certificates often carry the set only as a "SET WOW S1"
	// style banner with no "Calibration of:" narrative
	if meta.WeightSet == "" {
		if m := wowSetRegex.FindStringSubmatch(fullText); m != nil {
			meta.WeightSet = "WOW-S" + m[1]
		}
	}

	return meta
}

func weightSetDescription(fullText string) string {
	loc := calibrationOfRegex.FindStringIndex(fullText)
	if loc == nil {
		return ""
	}
	rest := fullText[loc[1]:]

	low := strings.ToLower(rest)
	cut := len(rest)
	for _, kw := range weightSetEndKeywords {
		if idx := strings.Index(low, kw); idx >= 0 && idx < cut {
			cut = idx
		}
	}

	desc := whitespaceRegex.ReplaceAllString(strings.TrimSpace(rest[:cut]), " ")
	if len(desc) > 120 {
		desc = strings.TrimSpace(desc[:120])
	}
	return desc
}
