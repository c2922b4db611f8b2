package httpclient

import (
	"io"
	"net/http"

	"github.com/kbukum/livesse/httpclient/sse"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method. Defaults to GET.
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL.
	Path string
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is an optional request body.
	Body io.Reader
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// StreamResponse wraps a streaming HTTP response.
type StreamResponse struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// ContentType is the media type the server declared.
	ContentType string
	// SSE is the event reader for text/event-stream responses.
	SSE sse.Reader
	// Body is the raw body for any other content type.
	Body io.ReadCloser

	rawResp *http.Response
}

// IsEventStream reports whether the response carries server-sent events.
func (r *StreamResponse) IsEventStream() bool {
	return r.SSE != nil
}

// Close releases all resources associated with the stream.
func (r *StreamResponse) Close() error {
	switch {
	case r.SSE != nil:
		return r.SSE.Close()
	case r.Body != nil:
		return r.Body.Close()
	case r.rawResp != nil && r.rawResp.Body != nil:
		return r.rawResp.Body.Close()
	}
	return nil
}
