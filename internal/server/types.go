package server

import (
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

// ExtractResponse is the response for the extract endpoint
type ExtractResponse struct {
	Invoice  *model.Invoice `json:"invoice"`
	Format   string         `json:"format"`
	Method   string         `json:"method"`
	Warnings []string       `json:"warnings,omitempty"`
}

// InfoResponse is the response for info endpoint
type InfoResponse struct {
	Format       string `json:"format"`
	MimeType     string `json:"mime_type"`
	Size         int    `json:"size"`
	DocumentType string `json:"document_type,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
