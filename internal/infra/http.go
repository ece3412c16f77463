package infra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserAgent identifies the application to the BanRep portal. The portal
// rejects requests without a browser-like User-Agent.
const UserAgent = "Mozilla/5.0 (compatible; haircuts-dcv/1.0; +https://github.com/dcvtools/haircuts)"

// HTTPClient wraps an http.Client with the default headers every portal
// request carries.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a client with the given per-request timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPClient) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	return req, nil
}

// Get performs a GET request and returns the response body and status code.
// The caller must close the body on success.
func (h *HTTPClient) Get(ctx context.Context, url string) (io.ReadCloser, int, error) {
	req, err := h.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, 0, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.StatusCode, nil
}

// GetBytes performs a GET request and reads the full body. Non-2xx statuses
// are returned as errors.
func (h *HTTPClient) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, status, err := h.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, status)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// Head performs a HEAD request and returns the status code.
func (h *HTTPClient) Head(ctx context.Context, url string) (int, error) {
	req, err := h.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// RangeProbe performs a GET request for the first byte only and returns the
// status code. Some servers misreport HEAD, so this is the heavier
// confirmation probe used before declaring a candidate absent.
func (h *HTTPClient) RangeProbe(ctx context.Context, url string) (int, error) {
	req, err := h.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", "bytes=0-0")
	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	// Drain the single byte so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 8))
	resp.Body.Close()
	return resp.StatusCode, nil
}
