package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/packdex/packdex/pkg/cache"
)

// Client provides shared HTTP functionality for the registry clients.
// It handles caching, retry logic, and common request headers.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	headers map[string]string
}

// NewClient creates a Client backed by the given cache.
// Pass nil for headers if no default headers are needed.
func NewClient(c cache.Cache, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   c,
		headers: headers,
	}
}

// Cached retrieves a value from cache or executes fetch and caches the
// result under key with the given TTL. The fetch function should populate
// v; on success, v is stored in the cache. Failed fetches are never
// cached.
func (c *Client) Cached(ctx context.Context, key string, ttl time.Duration, v any, fetch func() error) error {
	if ok, _ := cache.GetJSON(ctx, c.cache, key, v); ok {
		return nil
	}
	if err := RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	_ = cache.SetJSON(ctx, c.cache, key, v, ttl)
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// Status codes are mapped like [checkStatus]: 404 yields [ErrNotFound] and
// 5xx a retryable error, so fetches run under [Retry] behave correctly.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}

// GetRaw performs an HTTP GET request and returns status and body without
// interpreting either. Callers that need their own status mapping (the
// search and descriptor clients) use this instead of Get.
func (c *Client) GetRaw(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrUpstream, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp.StatusCode, data, nil
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrUpstream, err)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrUpstream, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrUpstream, code)
	}
}
