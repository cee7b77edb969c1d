package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/fitplanner/internal/metrics"
	"github.com/claude/fitplanner/internal/planner"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc     *planner.Service
	metrics *metrics.Manager
	gather  prometheus.Gatherer
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured. m and gather may be
// nil, in which case request metrics and /metrics are disabled.
func New(svc *planner.Service, m *metrics.Manager, gather prometheus.Gatherer, log *slog.Logger) *Server {
	s := &Server{
		svc:     svc,
		metrics: m,
		gather:  gather,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(PanicRecovery(s.log, s.metrics))
	s.router.Use(RequestMetrics(s.metrics))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	if s.gather != nil {
		s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/body-parts", s.handleBodyParts)
		r.Get("/exercises/preview", s.handlePreview)
		r.Get("/exercises/sample", s.handleSample)
		r.Get("/goals", s.handleGoals)
		r.Post("/advice", s.handleAdvice)
		r.Get("/advice/history", s.handleAdviceHistory)
	})
}

// MountMCP exposes an MCP streamable HTTP handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetFrontend mounts a static dashboard filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
