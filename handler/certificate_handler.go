package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caljson/weightcert/dto"
	"github.com/caljson/weightcert/service"
)

type CertificateHandler struct {
	certService *service.CertificateService
}

func NewCertificateHandler(certService *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{
		certService: certService,
	}
}

// Convert handles the POST /certificates/convert endpoint
func (h *CertificateHandler) Convert(c *gin.Context) {
	log.Println("Received certificate conversion request")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "No certificate file provided", err)
		return
	}

	request := &dto.ConvertRequest{File: fileHeader}
	if schemaHeader, err := c.FormFile("schema"); err == nil {
		request.Schema = schemaHeader
	}

	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	pdfBytes, err := readUpload(request.File)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read certificate file", err)
		return
	}

	var schemaBytes []byte
	if request.Schema != nil {
		schemaBytes, err = readUpload(request.Schema)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "Failed to read schema file", err)
			return
		}
	}

	log.Printf("Processing certificate %s (%d bytes)", request.File.Filename, len(pdfBytes))

	response, err := h.certService.ProcessDocument(context.Background(), pdfBytes, schemaBytes)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dto.ErrUnreadableDocument) {
			status = http.StatusUnprocessableEntity
		}
		h.sendError(c, status, "Failed to process certificate", err)
		return
	}

	log.Printf("Conversion completed: %d rows, %d discrepancies",
		len(response.Rows), len(response.Discrepancies))
	c.JSON(http.StatusOK, response)
}

// ExportRows handles POST /certificates/rows: the strict row export only.
func (h *CertificateHandler) ExportRows(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "No certificate file provided", err)
		return
	}

	pdfBytes, err := readUpload(fileHeader)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read certificate file", err)
		return
	}

	response, err := h.certService.ProcessDocument(context.Background(), pdfBytes, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dto.ErrUnreadableDocument) {
			status = http.StatusUnprocessableEntity
		}
		h.sendError(c, status, "Failed to process certificate", err)
		return
	}

	c.JSON(http.StatusOK, service.ExportRows(response.Rows))
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// sendError sends a structured error response
func (h *CertificateHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "CONVERSION_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
