package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/editor"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for the outline editor.
type Server struct {
	router       chi.Router
	editor       *editor.Editor
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(ed *editor.Editor, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		editor:       ed,
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.OutlineAPIKey, s.log))

		r.Get("/api/documents", s.handleListDocuments)
		r.Route("/api/documents/{key}", func(r chi.Router) {
			r.Get("/", s.handleGetDocument)
			r.Put("/", s.handlePutDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/outline", s.handleOutline)
			r.Get("/sections/{id}", s.handleGetSection)
			r.Put("/sections/{id}", s.handlePutSection)
		})

		r.Post("/api/preview", s.handlePreview)

		r.Post("/api/import", s.handleImport)
		r.Post("/api/import/batch", s.handleBatchImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
