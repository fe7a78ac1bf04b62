// Package api exposes the settings engine over HTTP so external tooling
// (scripts, a browser frontend) can read the catalog and commit options
// without the TUI.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/form"
	"github.com/rcpilot/rcpilot/internal/history"
)

// Server provides HTTP endpoints over the form engine.
type Server struct {
	router  chi.Router
	engine  *form.Engine
	loader  *catalog.Loader
	history *history.Store
	logger  *slog.Logger

	// reload re-fetches the catalog and rebuilds the engine; wired by the
	// serve command so the API shares the TUI's load path.
	reload func(r *http.Request) error
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHistory enables the history endpoint.
func WithHistory(store *history.Store) ServerOption {
	return func(s *Server) {
		s.history = store
	}
}

// WithReload sets the catalog reload hook used after reset.
func WithReload(reload func(r *http.Request) error) ServerOption {
	return func(s *Server) {
		s.reload = reload
	}
}

// NewServer creates a new API server over the engine.
func NewServer(engine *form.Engine, loader *catalog.Loader, opts ...ServerOption) *Server {
	s := &Server{
		engine: engine,
		loader: loader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.loggingMiddleware)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	r.Use(corsHandler.Handler)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/{service}", s.handleService)
		r.Route("/options/{service}/{category}/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetOption)
			r.Put("/", s.handleSaveOption)
			r.Delete("/", s.handleRemoveOption)
		})
		r.Post("/reset", s.handleReset)
		r.Get("/history", s.handleHistory)
	})

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
