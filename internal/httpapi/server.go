// Package httpapi serves the comparator over HTTP.
//
// Routes:
//
//	GET  /healthz       liveness probe
//	GET  /v1/rules      rule catalog, optionally filtered by ?code= or ?kind=
//	POST /v1/compare    compare two inline documents
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxBodySize caps the compare request body when Options leaves it unset.
const DefaultMaxBodySize int64 = 10 << 20

// Options configures the HTTP API.
type Options struct {
	// Strict is used when a compare request does not set it.
	Strict bool
	// Validate runs structural validation on both documents.
	Validate bool
	// MaxBodySize limits the compare request body, in bytes.
	MaxBodySize int64
	Logger      *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Server wraps an http.Server around the API router.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router and its handlers.
func NewServer(opts Options) *Server {
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}
	s := &Server{
		router: chi.NewRouter(),
		logger: opts.logger(),
	}
	s.setupRoutes(&handler{opts: opts, logger: s.logger})
	return s
}

func (s *Server) setupRoutes(h *handler) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router.Get("/healthz", h.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/rules", h.handleRules)
		r.Post("/compare", h.handleCompare)
	})
}

// Router returns the API handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = s.newHTTPServer(addr)
	return s.serve()
}

func (s *Server) newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) serve() error {
	s.logger.Info("http api listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Run serves on addr and shuts down when ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = s.newHTTPServer(addr)
	errc := make(chan error, 1)
	go func() { errc <- s.serve() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errc
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}
		s.logger.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}
