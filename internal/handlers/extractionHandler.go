package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/akolanti/DocForm/internal/api"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/akolanti/DocForm/internal/extraction"
	"github.com/akolanti/DocForm/internal/upload"
	"github.com/akolanti/DocForm/pkg/logger_i"
)

// ExtractionHandler serves the reference extraction backend.
type ExtractionHandler struct {
	service extraction.Service
	logger  *logger_i.Logger
}

func NewExtractionHandler(service extraction.Service) *ExtractionHandler {
	return &ExtractionHandler{service: service, logger: logger_i.NewLogger("ExtractionHandler")}
}

// ProcessDocument godoc
// @Summary      Extract structured data from a document
// @Description  Reads the text of the uploaded document, asks every configured model for the fields of the document type and returns one record per model. A model that failed maps to null.
// @Tags         Extraction
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "PDF, DOCX, ODT, RTF or TXT document"
// @Param        type  formData  string  false  "Document type (invoice, spec, quote, submittal)" default(invoice)
// @Success      200   {object}  api.ExtractionResponse  "Records keyed by model"
// @Failure      400   {object}  api.ErrorResponse       "Missing file or unreadable document"
// @Failure      500   {object}  api.ErrorResponse       "No model configured or every model failed"
// @Router       /api/process-pdf [post]
func (h *ExtractionHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	ctx := r.Context()
	log := h.logger.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		log.Warn("Error parsing multipart form", "err", err)
		WriteErrorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	file, header, err := r.FormFile(upload.FormField)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "No file selected")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadSize+1))
	if err != nil || len(data) > config.MaxUploadSize {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large")
		return
	}

	docType := documentType(r.FormValue("type"), log)
	result, err := h.service.Process(ctx, header.Filename, data, docType)
	if err != nil {
		status, message := extractionFailure(err)
		log.Error("Extraction failed", "file", header.Filename, "status", status, "err", err)
		WriteErrorResponse(w, status, message)
		return
	}

	tokens := result.Tokens
	writeJsonResponse(w, http.StatusOK, api.ExtractionResponse{
		Success: true,
		Data:    result.Data,
		Tokens:  &tokens,
	})
}

// ListDocumentTypes godoc
// @Summary      List document types
// @Description  Returns the document types the backend has prompts and field orders for.
// @Tags         Extraction
// @Produce      json
// @Success      200  {object}  api.DocumentTypesResponse
// @Router       /api/document-types [get]
func (h *ExtractionHandler) ListDocumentTypes(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.DocumentTypesResponse{
		Success:       true,
		DocumentTypes: h.service.DocumentTypes(),
	})
}

// documentType falls back to the default for a missing or unknown type.
func documentType(raw string, log *logger_i.Logger) documentModel.DocumentType {
	if raw == "" {
		return config.DefaultDocumentType
	}
	t, err := documentModel.ParseDocumentType(raw)
	if err != nil {
		log.Warn("Unknown document type, using the default", "type", raw)
		return config.DefaultDocumentType
	}
	return t
}

func extractionFailure(err error) (int, string) {
	switch {
	case errors.Is(err, errorModel.ErrUnsupportedFile):
		return http.StatusBadRequest, "Unsupported file"
	case errors.Is(err, extraction.ErrNoText):
		return http.StatusBadRequest, "No text could be extracted from the document"
	case errors.Is(err, extraction.ErrNoProviders):
		return http.StatusInternalServerError, "No extraction model is configured"
	case errors.Is(err, extraction.ErrAllProvidersFailed):
		return http.StatusInternalServerError, "Every extraction model failed"
	}
	return http.StatusInternalServerError, errorModel.FallbackExtractMessage
}
