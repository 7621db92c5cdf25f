package api

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed static
var staticFiles embed.FS

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(requestMetrics(s.metrics))

	static, _ := fs.Sub(staticFiles, "static")
	r.Get("/", http.FileServer(http.FS(static)).ServeHTTP)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", s.handleHealthCheck)

	r.Post("/scrape", s.handleScrapeRequest)
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Get("/{id}", s.handleGetTask)
		r.Get("/{id}/result", s.handleGetResult)
	})

	return r
}
