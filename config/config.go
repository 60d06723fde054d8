package config

import (
	"os"
	"strconv"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	TesseractLanguage string
	TesseractPSM      int
	PdftoppmPath      string
	OCRDPI            int
	PageCacheDir      string
	MaxFileSize       int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tessdataPath := os.Getenv("TESSDATA_PREFIX")
	if tessdataPath == "" {
		tessdataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	language := os.Getenv("OCR_LANGUAGE")
	if language == "" {
		language = "eng"
	}

	psm := 6 // assume a uniform block of text, works best on tabular pages
	if v := os.Getenv("OCR_PSM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			psm = n
		}
	}

	pdftoppm := os.Getenv("PDFTOPPM_PATH")
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}

	dpi := 300
	if v := os.Getenv("OCR_DPI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dpi = n
		}
	}

	return &Config{
		ServerPort:        serverPort,
		TesseractDataPath: tessdataPath,
		TesseractLanguage: language,
		TesseractPSM:      psm,
		PdftoppmPath:      pdftoppm,
		OCRDPI:            dpi,
		PageCacheDir:      os.Getenv("PAGE_CACHE_DIR"),
		MaxFileSize:       32 * 1024 * 1024, // 32 MB
	}
}
