package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFileCountsCount(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		w.Write([]byte(`{
			"response": {
				"numFound": 1,
				"docs": [{"ec": ["-sources.jar", "-javadoc.jar", ".jar", ".pom"]}]
			}
		}`))
	}))
	defer srv.Close()

	f := NewFileCounts(NewClient(nil, nil), srv.URL+"?q=%s")
	count, err := f.Count(context.Background(), "io.packdex.libs", "core", "2.0")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}

	for _, part := range []string{`g:"io.packdex.libs"`, `a:"core"`, `v:"2.0"`} {
		if !strings.Contains(query, part) {
			t.Errorf("query %q missing %q", query, part)
		}
	}
}

func TestFileCountsUnknownVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"numFound": 0, "docs": []}}`))
	}))
	defer srv.Close()

	f := NewFileCounts(NewClient(nil, nil), srv.URL+"?q=%s")
	_, err := f.Count(context.Background(), "g", "a", "0.0.0")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Count error = %v, want ErrNotFound", err)
	}
}

func TestFileCountsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	f := NewFileCounts(NewClient(nil, nil), srv.URL+"?q=%s")
	_, err := f.Count(context.Background(), "g", "a", "1.0")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Count error = %v, want ErrUpstream", err)
	}
}

func TestFileCountsServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFileCounts(NewClient(nil, nil), srv.URL+"?q=%s")
	_, err := f.Count(context.Background(), "g", "a", "1.0")

	var retryable *RetryableError
	if !errors.As(err, &retryable) {
		t.Errorf("Count error = %v, want RetryableError so backoff retries apply", err)
	}
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Count error = %v, want ErrUpstream in chain", err)
	}
}

func TestFileCountsEndpointNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFileCounts(NewClient(nil, nil), srv.URL+"?q=%s")
	_, err := f.Count(context.Background(), "g", "a", "1.0")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Count error = %v, want ErrNotFound", err)
	}
}

func TestFileCountsUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	f := NewFileCounts(NewClient(nil, nil), srv.URL+"?q=%s")
	_, err := f.Count(context.Background(), "g", "a", "1.0")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Count error = %v, want ErrUpstream", err)
	}
}
