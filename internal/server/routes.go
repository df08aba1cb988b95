package server

import (
	"net/http"

	"github.com/akolanti/DocForm/internal/adapter/utils"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/handlers"
	"github.com/akolanti/DocForm/internal/middleware"
)

// WebRoutes is the router of the browser application.
func WebRoutes(h *handlers.WebHandler, uploadLimiter *middleware.IPRateLimiter) http.Handler {
	r := utils.NewRouter()

	r.Router.Get("/", middleware.WrapSession(h.Index))
	r.Router.Post("/upload", middleware.WrapLimited(uploadLimiter, h.Upload))
	r.Router.Post("/document-type", middleware.WrapSession(h.SelectDocumentType))
	r.Router.Get("/document", middleware.WrapSession(h.Document))
	r.Router.Post("/document/clear", middleware.WrapSession(h.Clear))
	r.Router.Post("/viewer/page", middleware.WrapSession(h.ViewerPage))
	r.Router.Post("/viewer/zoom", middleware.WrapSession(h.ViewerZoom))
	r.Router.Post("/viewer/loaded", middleware.WrapSession(h.ViewerLoaded))
	r.Router.Get("/api/session", middleware.WrapSession(h.Session))
	r.Router.Get("/api/document-types", middleware.Wrap(h.DocumentTypes))
	r.Router.Get("/export.xlsx", middleware.WrapSession(h.Export))
	r.Router.Get("/ws/scroll", middleware.WrapSession(h.ScrollSync))
	r.Router.Get("/healthz", handlers.Health)

	return r.Router
}

// ExtractorRoutes is the router of the reference extraction backend.
func ExtractorRoutes(h *handlers.ExtractionHandler) http.Handler {
	r := utils.NewRouter()
	utils.InitSwagger(r.Router)

	r.Router.Post(config.ProcessDocumentPath, middleware.Wrap(h.ProcessDocument))
	r.Router.Get(config.DocumentTypesPath, middleware.Wrap(h.ListDocumentTypes))
	r.Router.Get("/healthz", handlers.Health)

	return r.Router
}
