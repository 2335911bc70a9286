package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/packdex/packdex/pkg/cache"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	c := NewClient(nil, nil)
	var out struct {
		Value int `json:"value"`
	}
	if err := c.Get(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("value = %d, want 42", out.Value)
	}
}

func TestClientGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(nil, nil)
	err := c.Get(context.Background(), srv.URL, &struct{}{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestClientGetServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(nil, nil)
	err := c.Get(context.Background(), srv.URL, &struct{}{})
	var retryable *RetryableError
	if !errors.As(err, &retryable) {
		t.Errorf("Get error = %v, want RetryableError", err)
	}
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Get error = %v, want ErrUpstream in chain", err)
	}
}

func TestClientGetRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	c := NewClient(nil, nil)
	status, body, err := c.GetRaw(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetRaw failed: %v", err)
	}
	if status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", status, http.StatusTeapot)
	}
	if string(body) != "short and stout" {
		t.Errorf("body = %q, want %q", body, "short and stout")
	}
}

func TestClientSendsHeaders(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Accept")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := NewClient(nil, map[string]string{"Accept": "application/json"})
	if err := c.Get(context.Background(), srv.URL, &struct{}{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "application/json" {
		t.Errorf("Accept header = %q, want application/json", got)
	}
}

func TestClientCachedSkipsFetchOnHit(t *testing.T) {
	store := cache.NewMemoryCache()
	c := NewClient(store, nil)

	fetches := 0
	for i := 0; i < 3; i++ {
		var v string
		err := c.Cached(context.Background(), "key", cache.TTLForever, &v, func() error {
			fetches++
			v = "fetched"
			return nil
		})
		if err != nil {
			t.Fatalf("Cached failed: %v", err)
		}
		if v != "fetched" {
			t.Errorf("v = %q, want fetched", v)
		}
	}
	if fetches != 1 {
		t.Errorf("fetch ran %d times, want 1", fetches)
	}
}

func TestClientCachedDoesNotCacheFailures(t *testing.T) {
	store := cache.NewMemoryCache()
	c := NewClient(store, nil)

	var v string
	boom := errors.New("fetch failed")
	err := c.Cached(context.Background(), "key", cache.TTLForever, &v, func() error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Cached error = %v, want %v", err, boom)
	}
	if _, hit, _ := store.Get(context.Background(), "key"); hit {
		t.Error("failed fetch must not be cached")
	}
}

func TestUpstreamErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	err := &UpstreamError{Status: 503, Body: string(long)}

	if msg := err.Error(); len(msg) > 300 {
		t.Errorf("error message is %d bytes, should truncate the body", len(msg))
	}
	if !errors.Is(err, ErrUpstream) {
		t.Error("UpstreamError should match ErrUpstream")
	}
}
