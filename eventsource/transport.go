package eventsource

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/livesse/httpclient"
	"github.com/kbukum/livesse/logger"
	"github.com/kbukum/livesse/observability"
	"github.com/kbukum/livesse/resilience"
	"github.com/kbukum/livesse/version"
)

// ErrStreamClosed is reported when the server keeps closing the stream under
// RetryAlways and the reconnect budget runs out.
var ErrStreamClosed = stderrors.New("eventsource: stream closed by server")

const backoffJitter = 0.2

// Transport opens event streams through an httpclient.Client.
type Transport struct {
	client *httpclient.Client
	log    *logger.Logger
	tracer trace.Tracer
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithLogger sets the transport logger.
func WithLogger(l *logger.Logger) TransportOption {
	return func(t *Transport) { t.log = l }
}

// WithTracerProvider sets where connection spans are recorded.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) TransportOption {
	return func(t *Transport) { t.tracer = tp.Tracer(observability.TracerName) }
}

// NewTransport creates a Transport. A nil client gets a default one.
func NewTransport(client *httpclient.Client, opts ...TransportOption) *Transport {
	if client == nil {
		// The zero config is always valid.
		client, _ = httpclient.New(httpclient.Config{Name: "eventsource"})
	}
	t := &Transport{
		client: client,
		log:    logger.Get(logger.ComponentEventSource),
		tracer: otel.Tracer(observability.TracerName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Listen starts streaming url in a new goroutine and returns at once.
// Every event of the stream goes to h.
func (t *Transport) Listen(url string, opts Options, h Handler) Controller {
	opts.ApplyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	s := &stream{
		transport: t,
		url:       url,
		opts:      opts,
		handler:   h,
		log:       t.log.WithFields(logger.Fields(logger.FieldURL, url)),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

// stream is one Listen call; it implements Controller.
type stream struct {
	transport *Transport
	url       string
	opts      Options
	handler   Handler
	log       *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}

	// lastID is only touched by the stream goroutine.
	lastID string
}

func (s *stream) Abort() {
	s.once.Do(func() {
		s.log.Debug("Stream aborted")
		s.cancel()
	})
}

func (s *stream) Done() <-chan struct{} {
	return s.done
}

func (s *stream) run() {
	defer close(s.done)
	defer s.cancel()

	if err := s.opts.Validate(); err != nil {
		s.dispatch(Event{Kind: KindRequestError, Err: err})
		return
	}

	cfg := resilience.RetryConfig{
		MaxAttempts:    s.opts.MaxRetryCount + 1,
		InitialBackoff: s.opts.InitialBackoff,
		MaxBackoff:     s.opts.MaxBackoff,
		BackoffFactor:  2,
		Jitter:         backoffJitter,
		RetryIf:        s.retryable,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			s.log.Warn("Reconnecting", logger.MergeWithError(logger.Fields(
				logger.FieldAttempt, attempt,
				"backoff", backoff.String(),
			), err))
		},
	}

	err := resilience.RetryFunc(s.ctx, cfg, s.attempt)
	switch {
	case s.ctx.Err() != nil:
		return
	case err == nil:
		s.log.Debug("Stream ended")
	case s.retryable(err), httpclient.IsRequest(err):
		s.dispatch(Event{Kind: KindRequestError, Err: err})
	default:
		s.dispatch(Event{Kind: KindResponseError, Status: httpclient.StatusCode(err), Err: err})
	}
}

// retryable reports whether a failed attempt may be followed by another.
func (s *stream) retryable(err error) bool {
	if s.ctx.Err() != nil {
		return false
	}
	return httpclient.IsTransport(err) || stderrors.Is(err, ErrStreamClosed)
}

// attempt runs one connection until the stream ends. A nil return means the
// server closed the stream and no reconnect is wanted.
func (s *stream) attempt(n int) error {
	ctx, span := s.transport.tracer.Start(s.ctx, observability.SpanConnect, trace.WithAttributes(
		attribute.String(observability.AttrURL, s.url),
		attribute.Int(observability.AttrAttempt, n),
	))
	defer span.End()

	resp, err := s.transport.client.DoStream(ctx, httpclient.Request{
		Method:  s.opts.Method,
		Path:    s.url,
		Headers: s.headers(),
	})
	if err != nil {
		observability.SetSpanError(span, err)
		s.log.Debug("Connection attempt failed", logger.MergeWithError(logger.Fields(
			logger.FieldAttempt, n,
			logger.FieldStatus, httpclient.StatusCode(err),
		), err))
		return err
	}
	defer resp.Close()

	span.SetAttributes(attribute.Int(observability.AttrStatus, resp.StatusCode))
	if !resp.IsEventStream() {
		err := httpclient.NewContentTypeError(resp.StatusCode, resp.ContentType)
		observability.SetSpanError(span, err)
		return err
	}

	s.dispatch(Event{Kind: KindResponse, Status: resp.StatusCode})

	for {
		ev, err := resp.SSE.Next()
		if id := resp.SSE.LastEventID(); id != "" {
			s.lastID = id
		}
		switch {
		case err == io.EOF:
			if s.opts.RetryStrategy == RetryAlways {
				return ErrStreamClosed
			}
			return nil
		case err != nil:
			if s.ctx.Err() != nil {
				return s.ctx.Err()
			}
			observability.SetSpanError(span, err)
			return httpclient.NewConnectionError(err)
		}

		if ev.Retry > 0 {
			s.log.Debug("Server requested retry delay", logger.Fields("retry", ev.Retry.String()))
		}
		s.dispatch(Event{Kind: KindMessage, Type: ev.Type(), Data: ev.Data, ID: ev.ID})
	}
}

func (s *stream) headers() map[string]string {
	h := map[string]string{
		"Accept":        "text/event-stream",
		"Cache-Control": "no-cache",
		"User-Agent":    version.UserAgent(),
	}
	for k, v := range s.opts.Headers {
		h[k] = v
	}
	if s.lastID != "" {
		h["Last-Event-ID"] = s.lastID
	}
	return h
}

// dispatch hands ev to the handler unless the stream was aborted.
func (s *stream) dispatch(ev Event) {
	if s.ctx.Err() != nil {
		return
	}
	err := s.handler.Handle(ev)
	if err == nil {
		return
	}
	if ev.Kind == KindMessage {
		s.log.Error("unhandled message failure", logger.MergeWithError(logger.Fields(
			logger.FieldEventType, ev.Type,
			logger.FieldEventID, ev.ID,
		), err))
		return
	}
	s.log.Warn("Handler failed", logger.MergeWithError(logger.Fields(
		logger.FieldEventType, ev.Kind.String(),
	), err))
}
