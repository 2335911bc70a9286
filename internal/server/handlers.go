package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/packdex/packdex/pkg/builder"
	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/registry"
)

// Response headers marking stale (archived) catalog reads.
const (
	headerStale   = "X-Packdex-Stale"
	headerBuiltAt = "X-Packdex-Built-At"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAllCatalogs(w http.ResponseWriter, r *http.Request) {
	c, err := s.service.All(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	pt, ok := s.lookupType(chi.URLParam(r, "type"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown package type"})
		return
	}

	c, err := s.service.Catalog(r.Context(), pt)
	if errors.Is(err, builder.ErrBuildInProgress) {
		s.serveStale(w, r, pt)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// serveStale answers an in-flight rebuild with the last archived snapshot
// when one exists, and 202 otherwise so the client retries shortly.
func (s *Server) serveStale(w http.ResponseWriter, r *http.Request, pt catalog.PackageType) {
	stale, builtAt, err := s.service.Stale(r.Context(), pt.Name)
	if err == nil && stale != nil {
		w.Header().Set(headerStale, "true")
		w.Header().Set(headerBuiltAt, builtAt.UTC().Format(time.RFC3339))
		writeJSON(w, http.StatusOK, stale)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "building"})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var upstream *registry.UpstreamError
	if errors.As(err, &upstream) {
		s.logger.Error("upstream unavailable", "status", upstream.Status)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
		return
	}
	s.logger.Error("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (s *Server) lookupType(name string) (catalog.PackageType, bool) {
	for _, pt := range s.service.Types() {
		if pt.Name == name {
			return pt, true
		}
	}
	return catalog.PackageType{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
