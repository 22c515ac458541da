package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/notepress/internal/config"
	"github.com/dgallion1/notepress/internal/pipeline"
	"github.com/dgallion1/notepress/internal/quiz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for notepress.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	quiz         *quiz.Parser
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		quiz:         quiz.NewParser(log),
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
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/compile", s.handleCompile)
		r.Post("/api/compile/jobs", s.handleSubmitJob)
		r.Get("/api/compile/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/compile/jobs/{jobID}/artifact", s.handleJobArtifact)

		r.Post("/api/quiz/parse", s.handleQuizParse)
		r.Post("/api/preview", s.handlePreview)
		r.Post("/api/scan", s.handleScan)

		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
