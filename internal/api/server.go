// Package api exposes conversion and stored books over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unalkalkan/txt2epub/internal/book"
	"github.com/unalkalkan/txt2epub/internal/health"
	"github.com/unalkalkan/txt2epub/internal/packaging"
	"github.com/unalkalkan/txt2epub/pkg/types"
)

// Server is the HTTP API server
type Server struct {
	router chi.Router
	books  *BookHandler
	health *health.Handler
	cfg    types.ConversionConfig
	log    *slog.Logger
}

// NewServer creates and configures the HTTP server
func NewServer(repo book.Repository, svc *packaging.Service, healthHandler *health.Handler, cfg types.ConversionConfig, log *slog.Logger) *Server {
	s := &Server{
		books:  NewBookHandler(repo, svc, cfg, log),
		health: healthHandler,
		cfg:    cfg,
		log:    log,
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

	r.Get("/health/live", s.health.LivenessHandler())
	r.Get("/health/ready", s.health.ReadinessHandler())
	r.Get("/health", s.health.HealthHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)

		r.Route("/books", func(r chi.Router) {
			r.Post("/", s.books.UploadBook)
			r.Get("/", s.books.ListBooks)
			r.Get("/{bookID}", s.books.GetBook)
			r.Get("/{bookID}/chapters", s.books.ListChapters)
			r.Get("/{bookID}/download", s.books.DownloadBook)
		})
	})

	s.router = r
}
