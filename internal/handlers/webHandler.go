package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/DocForm/internal/adapter"
	"github.com/akolanti/DocForm/internal/api"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/akolanti/DocForm/internal/export"
	"github.com/akolanti/DocForm/internal/metrics"
	"github.com/akolanti/DocForm/internal/render"
	"github.com/akolanti/DocForm/internal/scrollsync"
	"github.com/akolanti/DocForm/internal/shell"
	"github.com/akolanti/DocForm/internal/upload"
	"github.com/akolanti/DocForm/pkg/logger_i"
)

// WebHandler serves the browser facing routes. Every route expects the session
// id in the request context.
type WebHandler struct {
	shell     *shell.Service
	templates *render.Templates
	hub       *scrollsync.Hub
	logger    *logger_i.Logger
}

func NewWebHandler(service *shell.Service, templates *render.Templates, hub *scrollsync.Hub) *WebHandler {
	return &WebHandler{
		shell:     service,
		templates: templates,
		hub:       hub,
		logger:    logger_i.NewLogger("WebHandler"),
	}
}

func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	session := h.shell.Session(r.Context(), config.SessionID(r.Context()))
	h.page(w, r, http.StatusOK, adapter.ToPageData(session, h.shell.DocumentTypes(r.Context())))
}

func (h *WebHandler) page(w http.ResponseWriter, r *http.Request, status int, data render.PageData) {
	var buf bytes.Buffer
	if err := h.templates.Page(&buf, data); err != nil {
		h.logger.FromContext(r.Context()).Error("Error rendering page", "err", err)
		http.Error(w, errorModel.UnexpectedMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Upload takes the multipart "file" field and runs the extraction. The answer
// is the session as JSON for fetch calls and a redirect to the page otherwise.
func (h *WebHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	ctx := r.Context()
	log := h.logger.FromContext(ctx)
	sessionID := config.SessionID(ctx)

	file, err := upload.FromRequest(w, r)
	if err != nil {
		log.Warn("Rejected upload", "err", err)
		metrics.CountUpload("rejected")
		h.fail(w, r, http.StatusBadRequest, errorModel.UserMessage(err))
		return
	}

	session, err := h.shell.Upload(ctx, sessionID, file)
	switch {
	case errors.Is(err, errorModel.ErrSuperseded):
		WriteErrorResponse(w, http.StatusConflict, "A newer upload replaced this one")
		return
	case err != nil && session.Error == "":
		log.Error("Upload could not be stored", "err", err)
		h.fail(w, r, http.StatusInternalServerError, errorModel.UserMessage(err))
		return
	}

	if wantsJSON(r) {
		writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session))
		return
	}
	redirectHome(w, r)
}

// fail answers fetch calls with the error envelope and form posts with the
// page showing message.
func (h *WebHandler) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if wantsJSON(r) {
		WriteErrorResponse(w, status, message)
		return
	}
	session := h.shell.Session(r.Context(), config.SessionID(r.Context()))
	data := adapter.ToPageData(session, h.shell.DocumentTypes(r.Context()))
	data.Error = message
	h.page(w, r, status, data)
}

// SelectDocumentType stores the type for the next upload.
func (h *WebHandler) SelectDocumentType(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	docType := r.FormValue("type")
	session, err := h.shell.SelectDocumentType(r.Context(), config.SessionID(r.Context()), docType)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, errorModel.UserMessage(err))
		return
	}
	if wantsJSON(r) {
		writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session))
		return
	}
	redirectHome(w, r)
}

// Clear drops the document and the result of the session.
func (h *WebHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	session, err := h.shell.Clear(r.Context(), config.SessionID(r.Context()))
	if err != nil {
		h.logger.FromContext(r.Context()).Error("Could not clear session", "err", err)
		h.fail(w, r, http.StatusInternalServerError, errorModel.UnexpectedMessage)
		return
	}
	if wantsJSON(r) {
		writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session))
		return
	}
	redirectHome(w, r)
}

// Document streams the session's current file to the preview.
func (h *WebHandler) Document(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	sessionID := config.SessionID(r.Context())
	f, err := h.shell.Document(sessionID)
	if err != nil {
		if !errors.Is(err, errorModel.ErrNotFound) {
			h.logger.FromContext(r.Context()).Error("Could not open document", "err", err)
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	modTime := time.Time{}
	if st, err := f.Stat(); err == nil {
		modTime = st.ModTime()
	}
	name := "document.pdf"
	if session := h.shell.Session(r.Context(), sessionID); session.File != nil {
		name = session.File.Name
	}
	w.Header().Set("Content-Type", config.AcceptedMIMEType)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Cache-Control", "private, no-cache")
	http.ServeContent(w, r, name, modTime, f)
}

func (h *WebHandler) Session(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	session := h.shell.Session(r.Context(), config.SessionID(r.Context()))
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session))
}

func (h *WebHandler) DocumentTypes(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DocumentTypesResponse{
		Success:       true,
		DocumentTypes: h.shell.DocumentTypes(r.Context()),
	})
}

// Export downloads the current result as a workbook.
func (h *WebHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	session := h.shell.Session(r.Context(), config.SessionID(r.Context()))
	if !session.HasResult() {
		WriteErrorResponse(w, http.StatusNotFound, "No extracted data to export")
		return
	}
	data, err := export.Workbook(session.Records, session.Tokens)
	if err != nil {
		h.logger.FromContext(r.Context()).Error("Export failed", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, errorModel.UnexpectedMessage)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(session.DocumentType)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ScrollSync relays pane scroll positions between the panes of the session.
func (h *WebHandler) ScrollSync(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, config.SessionID(r.Context()))
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
