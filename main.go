package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/caljson/weightcert/client"
	"github.com/caljson/weightcert/config"
	"github.com/caljson/weightcert/handler"
	"github.com/caljson/weightcert/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// OCR engine configuration is passed in explicitly, nothing is
	// patched into the process environment
	tesseractClient := client.NewTesseractClient(client.TesseractConfig{
		DataPath: cfg.TesseractDataPath,
		Language: cfg.TesseractLanguage,
		PSM:      cfg.TesseractPSM,
	})
	defer tesseractClient.Close()

	rasterClient := client.NewRasterClient(cfg.PdftoppmPath, cfg.OCRDPI, cfg.PageCacheDir, nil)

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Table extraction backends, in fallback order; all outputs are pooled
	backends := []service.TableBackend{
		service.NewVectorBackend(),
		service.NewTextLayerBackend(),
		service.NewOCRBackend(rasterClient, tesseractClient, pdfProcessor),
	}

	// Initialize service layer
	certService := service.NewCertificateService(pdfProcessor, backends)

	// Initialize handler layer
	certHandler := handler.NewCertificateHandler(certService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Weight Certificate Converter",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		certificates := api.Group("/certificates")
		{
			certificates.POST("/convert", certHandler.Convert)
			certificates.POST("/rows", certHandler.ExportRows)
		}
	}

	// Start server
	log.Printf("Starting Weight Certificate Converter on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
