// Package registry implements the clients for the upstream services the
// catalog is assembled from: the artifact search API, the per-version
// file-count lookup, and the build-descriptor (POM) repository.
//
// All clients share a common HTTP core with status mapping, retry with
// backoff, and read-through caching over [cache.Cache]. Cached upstream
// facts (descriptors, file counts) describe immutable published artifacts
// and are stored without expiry.
package registry

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrUpstream is returned for HTTP failures (timeouts, connection
	// errors, unexpected status codes).
	ErrUpstream = errors.New("upstream error")
)

// UpstreamError reports an unusable response from the search service.
// It carries the raw body so operators can see what the service actually
// returned.
type UpstreamError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream unavailable (status %d): %s", e.Status, truncate(e.Body, 200))
}

// Unwrap makes errors.Is(err, ErrUpstream) match.
func (e *UpstreamError) Unwrap() error { return ErrUpstream }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// NewHTTPClient creates an HTTP client with a standard timeout for
// registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
