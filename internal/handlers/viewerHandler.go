package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/akolanti/DocForm/internal/adapter"
	"github.com/akolanti/DocForm/internal/api"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/sessionModel"
	"github.com/akolanti/DocForm/internal/shell"
	"github.com/akolanti/DocForm/internal/viewer"
)

// ViewerPage moves the preview. The form posts action=next|previous; a page
// field jumps to that page instead.
func (h *WebHandler) ViewerPage(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	ctx := r.Context()
	sessionID := config.SessionID(ctx)

	var (
		session sessionModel.Session
		err     error
	)
	if raw := r.FormValue("page"); raw != "" {
		page, convErr := strconv.Atoi(raw)
		if convErr != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "page must be a number")
			return
		}
		session, err = h.shell.GoToPage(ctx, sessionID, page)
	} else {
		session, err = h.shell.Page(ctx, sessionID, shell.PageAction(r.FormValue("action")))
	}
	if err != nil {
		h.viewerError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJsonResponse(w, http.StatusOK, adapter.ToViewerResponse(session, nil))
		return
	}
	redirectHome(w, r)
}

// ViewerZoom steps the scale and answers the scroll offsets that keep the
// viewport centre in place.
func (h *WebHandler) ViewerZoom(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.ZoomRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}
	session, scroll, err := h.shell.Zoom(r.Context(), config.SessionID(r.Context()), shell.ZoomDirection(req.Direction), req.Viewport)
	if err != nil {
		h.viewerError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToViewerResponse(session, &scroll))
}

// ViewerLoaded is called once the preview container has a width.
func (h *WebHandler) ViewerLoaded(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.LoadedRequest
	if err := decodeJSON(r, &req); err != nil || req.ContainerWidth < 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}
	session, err := h.shell.ViewerLoaded(r.Context(), config.SessionID(r.Context()), req.ContainerWidth)
	if err != nil {
		h.viewerError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToViewerResponse(session, nil))
}

func (h *WebHandler) viewerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, viewer.ErrNotLoaded) {
		WriteErrorResponse(w, http.StatusConflict, "No document selected")
		return
	}
	h.logger.FromContext(r.Context()).Warn("Viewer request rejected", "err", err)
	WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
}
