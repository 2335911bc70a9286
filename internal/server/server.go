// Package server exposes the catalog over HTTP.
//
// Routes:
//
//	GET /healthz              liveness probe
//	GET /catalogs             union of all configured package types
//	GET /catalogs/{type}      catalog for one package type
//
// While a rebuild for a type is in flight, reads of that type are served
// from the last archived snapshot (marked with X-Packdex-Stale) or answer
// 202 until the rebuild lands in the snapshot cache.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/packdex/packdex/pkg/catalog"
)

// CatalogService is the part of the build core the server consumes.
type CatalogService interface {
	Types() []catalog.PackageType
	Catalog(ctx context.Context, pt catalog.PackageType) (catalog.Catalog, error)
	All(ctx context.Context) (catalog.Catalog, error)
	Stale(ctx context.Context, typeName string) (catalog.Catalog, time.Time, error)
}

// Server serves the catalog HTTP API.
type Server struct {
	service CatalogService
	logger  *log.Logger
	http    *http.Server
}

// New creates a server listening on addr. A nil logger discards output.
func New(addr string, service CatalogService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{service: service, logger: logger}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/catalogs", s.handleAllCatalogs)
	r.Get("/catalogs/{type}", s.handleCatalog)
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully with a short drain window.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return s.http.Shutdown(shutdownCtx)
}

// logRequests logs each request with method, path, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
