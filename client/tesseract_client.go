package client

import (
	"fmt"
	"log"

	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig is the full OCR configuration. It is passed in
// explicitly; the client never reads or mutates process environment.
type TesseractConfig struct {
	DataPath string
	Language string
	PSM      int
}

type TesseractClient struct {
	cfg TesseractConfig
}

func NewTesseractClient(cfg TesseractConfig) *TesseractClient {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &TesseractClient{cfg: cfg}
}

// ExtractText runs Tesseract over one page image and returns the raw text.
func (tc *TesseractClient) ExtractText(imagePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if tc.cfg.DataPath != "" {
		client.SetTessdataPrefix(tc.cfg.DataPath)
	}
	if err := client.SetLanguage(tc.cfg.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(tc.cfg.PSM)); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}

// ExtractTextAndConfidence additionally reports the mean word confidence,
// used for zero-row diagnostics.
func (tc *TesseractClient) ExtractTextAndConfidence(imagePath string) (string, float64, error) {
	text, err := tc.ExtractText(imagePath)
	if err != nil {
		return "", 0, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.cfg.DataPath != "" {
		client.SetTessdataPrefix(tc.cfg.DataPath)
	}
	if err := client.SetLanguage(tc.cfg.Language); err != nil {
		return text, 0, nil
	}
	if err := client.SetImage(imagePath); err != nil {
		return text, 0, nil
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return text, 0, nil
	}

	var total float64
	for _, box := range boxes {
		total += box.Confidence
	}
	return text, total / float64(len(boxes)), nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}
