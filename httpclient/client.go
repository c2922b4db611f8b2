package httpclient

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/kbukum/livesse/httpclient/sse"
)

const (
	contentTypeEventStream = "text/event-stream"
	maxErrorBody           = 64 << 10
)

// Client is a configurable HTTP client for long-lived streaming requests.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	// No client-wide Timeout: it would cut streams off mid-read. The request
	// context ends a stream instead.
	return &Client{
		httpClient: &http.Client{Transport: transport},
		config:     cfg,
	}, nil
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.config.Name
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// DoStream executes a request and returns the open response stream.
// The caller must close the returned StreamResponse when done.
//
// Transport failures come back as connection or timeout errors and non-2xx
// statuses as classified status errors. A 2xx response with a body other
// than text/event-stream is returned with Body set and SSE nil.
func (c *Client) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, nil); classErr != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		classErr.Body = body
		return nil, classErr
	}

	ct := resp.Header.Get("Content-Type")
	stream := &StreamResponse{
		StatusCode:  resp.StatusCode,
		Headers:     flattenHeaders(resp.Header),
		ContentType: ct,
		rawResp:     resp,
	}
	if isEventStream(ct) {
		stream.SSE = sse.NewReader(resp.Body)
	} else {
		stream.Body = resp.Body
	}
	return stream, nil
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, req.Body)
	if err != nil {
		return nil, NewRequestError(err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// isEventStream reports whether a Content-Type header names an SSE stream.
func isEventStream(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, contentTypeEventStream)
	}
	return mediaType == contentTypeEventStream
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	t, ok := err.(timeout)
	return ok && t.Timeout()
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
