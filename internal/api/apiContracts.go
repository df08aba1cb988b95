package api

import (
	"encoding/json"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/viewer"
)

// ErrorResponse is the single error envelope of both services.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"No file provided"`
}

// ExtractionResponse is the answer of POST /api/process-pdf. Data is either a
// record or an object of model name -> record.
type ExtractionResponse struct {
	Success bool                      `json:"success" example:"true"`
	Data    json.RawMessage           `json:"data,omitempty" swaggertype:"object"`
	Tokens  *documentModel.TokenUsage `json:"tokens,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

type DocumentTypesResponse struct {
	Success       bool     `json:"success" example:"true"`
	DocumentTypes []string `json:"document_types" example:"invoice,spec,quote,submittal"`
}

// SessionResponse is the JSON view of a browser session.
type SessionResponse struct {
	ID           string                      `json:"id"`
	DocumentType string                      `json:"document_type"`
	FileName     string                      `json:"file_name,omitempty"`
	Status       string                      `json:"status"`
	Error        string                      `json:"error,omitempty"`
	Records      []documentModel.ModelRecord `json:"records,omitempty"`
	Tokens       *documentModel.TokenUsage   `json:"tokens,omitempty"`
	Viewer       viewer.State                `json:"viewer"`
}

// ViewerResponse answers the preview endpoints.
type ViewerResponse struct {
	Status       viewer.Status  `json:"status"`
	Page         int            `json:"page"`
	PageCount    int            `json:"page_count"`
	ScalePercent int            `json:"scale_percent"`
	DocumentURL  string         `json:"document_url"`
	Scroll       *viewer.Scroll `json:"scroll,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// requests---------------------

type ZoomRequest struct {
	Direction string          `json:"direction" example:"in"`
	Viewport  viewer.Viewport `json:"viewport"`
}

type LoadedRequest struct {
	ContainerWidth float64 `json:"container_width"`
}

type ScrollEvent struct {
	Pane string  `json:"pane"`
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

type TransformRequest struct {
	DocumentType string          `json:"document_type"`
	Data         json.RawMessage `json:"data"`
}
