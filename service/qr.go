package service

import (
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// some labs stamp the certificate number into a QR code on the first page
var qrCertNoRegex = regexp.MustCompile(`(?i)(?:certificate|cert)[^A-Z0-9]*no[^A-Z0-9]*([A-Z0-9/\-]+)`)

// decodeCertificateQR scans a page image for a QR code and pulls a
// certificate number out of its payload. Used only when the anchored text
// patterns found nothing, typically on low-quality scans.
func decodeCertificateQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode QR code: %w", err)
	}

	payload := strings.TrimSpace(result.GetText())
	if m := qrCertNoRegex.FindStringSubmatch(payload); m != nil {
		return m[1], nil
	}

	// a bare certificate-number payload ("CM-25-181B")
	if payload != "" && !strings.ContainsAny(payload, " \n") {
		return payload, nil
	}
	return "", fmt.Errorf("QR payload carries no certificate number")
}
