// Package api is a small generic HTTP client used by the typed admin API
// layer. It owns JSON encoding, default headers, and request logging; it
// deliberately does not interpret status codes, so the caller can map them
// to its own error kinds.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trader-admin-console/internal/logger"
)

// Client wraps http.Client with a base URL and default headers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL sets the base URL prepended to every request path.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader sets a default header sent on every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a client with the given options.
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Request describes one HTTP call.
type Request struct {
	Method  string
	Path    string
	Body    any
	Headers map[string]string
	ctx     context.Context
}

// Response is the raw outcome of a request. Any status code is a valid
// response here; only transport-level failures surface as errors.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// NewRequest creates a request for the given method and path.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
		ctx:     context.Background(),
	}
}

// WithContext sets the context for the request.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// WithBody sets the request body, JSON-encoded on send.
func (r *Request) WithBody(body any) *Request {
	r.Body = body
	return r
}

// WithHeader sets a request-specific header.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// Do executes the request and returns the response regardless of status.
func (c *Client) Do(req *Request) (*Response, error) {
	url := c.baseURL + req.Path

	var bodyReader io.Reader
	if req.Body != nil {
		jsonBody, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(req.ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	logger.Debug(req.ctx, "HTTP request", "method", req.Method, "url", url)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Debug(req.ctx, "HTTP request failed", "method", req.Method, "url", url, "error", err)
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	logger.Debug(req.ctx, "HTTP response",
		"method", req.Method,
		"url", url,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"bodySize", len(body))

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

// GET performs a GET request.
func (c *Client) GET(ctx context.Context, path string, headers ...map[string]string) (*Response, error) {
	req := NewRequest(http.MethodGet, path).WithContext(ctx)
	applyHeaders(req, headers)
	return c.Do(req)
}

// POST performs a POST request with a JSON body.
func (c *Client) POST(ctx context.Context, path string, body any, headers ...map[string]string) (*Response, error) {
	req := NewRequest(http.MethodPost, path).WithContext(ctx).WithBody(body)
	applyHeaders(req, headers)
	return c.Do(req)
}

// PATCH performs a PATCH request with a JSON body.
func (c *Client) PATCH(ctx context.Context, path string, body any, headers ...map[string]string) (*Response, error) {
	req := NewRequest(http.MethodPatch, path).WithContext(ctx).WithBody(body)
	applyHeaders(req, headers)
	return c.Do(req)
}

// DELETE performs a DELETE request.
func (c *Client) DELETE(ctx context.Context, path string, headers ...map[string]string) (*Response, error) {
	req := NewRequest(http.MethodDelete, path).WithContext(ctx)
	applyHeaders(req, headers)
	return c.Do(req)
}

func applyHeaders(req *Request, headers []map[string]string) {
	if len(headers) > 0 {
		for key, value := range headers[0] {
			req.WithHeader(key, value)
		}
	}
}

// ParseJSON decodes the response body into v.
func (r *Response) ParseJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("parse JSON response: %w", err)
	}
	return nil
}

// String returns the response body as a string.
func (r *Response) String() string {
	return string(r.Body)
}
