package dto

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ConvertRequest represents the incoming certificate conversion request.
type ConvertRequest struct {
	File   *multipart.FileHeader `form:"file" binding:"required"`
	Schema *multipart.FileHeader `form:"schema"`
}

// Validate performs basic validation on the request
func (r *ConvertRequest) Validate() error {
	if r.File == nil {
		return ErrNoDocument
	}
	if !strings.EqualFold(filepath.Ext(r.File.Filename), ".pdf") {
		return errors.New("only PDF certificates are supported")
	}
	return nil
}
