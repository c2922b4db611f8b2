package subscription

import (
	"context"
	"sync"

	"github.com/kbukum/livesse/errors"
	"github.com/kbukum/livesse/eventsource"
	"github.com/kbukum/livesse/logger"
	"github.com/kbukum/livesse/observability"
)

// Transport opens event streams. *eventsource.Transport implements it.
type Transport interface {
	Listen(url string, opts eventsource.Options, h eventsource.Handler) eventsource.Controller
}

type watcher[T any] struct {
	id int
	fn func(State[T])
}

// Manager owns a single subscription to one URL.
//
// Connect and Disconnect are serialized. Transport events are applied from
// the transport goroutine; watchers are called outside all locks.
type Manager[T any] struct {
	url        string
	name       string
	transport  Transport
	streamOpts eventsource.Options
	decoder    Decoder
	newID      func() string
	log        *logger.Logger
	metrics    *observability.SubscriptionMetrics

	// opMu serializes Connect and Disconnect.
	opMu sync.Mutex

	mu        sync.Mutex
	session   *session
	state     State[T]
	watchers  []watcher[T]
	nextWatch int
}

// New creates an idle Manager for url. The url is used as given on every
// Connect.
func New[T any](url string, transport Transport, opts ...Option) *Manager[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get(o.name)
	}
	return &Manager[T]{
		url:        url,
		name:       o.name,
		transport:  transport,
		streamOpts: o.streamOpts,
		decoder:    o.decoder,
		newID:      o.newID,
		log:        o.log.WithFields(logger.Fields(logger.FieldURL, url)),
		metrics:    o.metrics,
	}
}

// URL returns the subscription endpoint.
func (m *Manager[T]) URL() string {
	return m.url
}

// State returns the current snapshot.
func (m *Manager[T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect starts a new session, closing the current one first.
func (m *Manager[T]) Connect() {
	m.opMu.Lock()
	m.closeSession()

	s := &session{id: m.newID()}
	m.mu.Lock()
	m.session = s
	m.state.PID = s.id
	m.state.Connected = true
	m.state.Error = ""
	m.mu.Unlock()

	m.metrics.SessionOpened(context.Background())
	m.log.Debug("Connecting", logger.Fields(logger.FieldSessionID, s.id))

	// The session is published before Listen so events that arrive while
	// Listen is still returning are applied to it.
	ctrl := m.transport.Listen(m.url, m.streamOpts, m.handlerFor(s))

	m.mu.Lock()
	s.ctrl = ctrl
	m.mu.Unlock()
	m.opMu.Unlock()

	m.notify()
}

// Disconnect aborts the current session and clears PID, Data and Connected.
// Error is kept. Without a session it does nothing.
func (m *Manager[T]) Disconnect() {
	m.opMu.Lock()
	closed := m.closeSession()
	m.opMu.Unlock()

	if closed {
		m.log.Debug("Disconnected")
		m.notify()
	}
}

// closeSession aborts the stream, then clears the session state. It reports
// whether there was a session. Callers hold opMu.
func (m *Manager[T]) closeSession() bool {
	m.mu.Lock()
	s := m.session
	if s == nil {
		m.mu.Unlock()
		return false
	}
	s.closed = true
	ctrl := s.ctrl
	m.mu.Unlock()

	if ctrl != nil {
		ctrl.Abort()
	}

	m.mu.Lock()
	m.session = nil
	m.state.PID = ""
	m.state.Connected = false
	m.state.Data = nil
	m.mu.Unlock()

	m.metrics.SessionClosed(context.Background())
	m.log.Debug("SSE cleanup", logger.Fields(logger.FieldSessionID, s.id))
	return true
}

// Watch registers fn to receive the current snapshot after every change.
// Deliveries can repeat a snapshot but the last delivery after a change
// always reflects it. fn must not block.
func (m *Manager[T]) Watch(fn func(State[T])) (cancel func()) {
	m.mu.Lock()
	id := m.nextWatch
	m.nextWatch++
	m.watchers = append(m.watchers, watcher[T]{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, w := range m.watchers {
				if w.id == id {
					m.watchers = append(m.watchers[:i:i], m.watchers[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Manager[T]) notify() {
	m.mu.Lock()
	snap := m.state
	fns := make([]func(State[T]), len(m.watchers))
	for i, w := range m.watchers {
		fns[i] = w.fn
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Attach ties the subscription to a scope: when ctx is done the manager
// disconnects. The returned stop detaches without disconnecting and
// reports whether the binding was still pending.
func (m *Manager[T]) Attach(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		m.log.Debug("Scope ended")
		m.Disconnect()
	})
}

func (m *Manager[T]) handlerFor(s *session) eventsource.Handler {
	return eventsource.HandlerFunc(func(ev eventsource.Event) error {
		return m.handle(s, ev)
	})
}

func (m *Manager[T]) handle(s *session, ev eventsource.Event) error {
	switch ev.Kind {
	case eventsource.KindMessage:
		return m.onMessage(s, ev)
	case eventsource.KindResponse:
		if !m.current(s) {
			m.stale(s, ev)
			return nil
		}
		m.log.Debug("Connection established", logger.Fields(
			logger.FieldSessionID, s.id,
			logger.FieldStatus, ev.Status,
		))
	case eventsource.KindRequestError:
		m.onError(s, ev, "Request error")
	case eventsource.KindResponseError:
		m.onError(s, ev, "Response error")
	}
	return nil
}

func (m *Manager[T]) onMessage(s *session, ev eventsource.Event) error {
	var v T
	if err := m.decoder.Decode([]byte(ev.Data), &v); err != nil {
		if !m.current(s) {
			m.stale(s, ev)
			return nil
		}
		m.metrics.MessageFailed(context.Background())
		return errors.DecodeFailed(m.name+".message", err).
			WithDetail(logger.FieldSessionID, s.id).
			WithDetail(logger.FieldEventID, ev.ID)
	}

	if !m.update(s, func(st *State[T]) { st.Data = &v }) {
		m.stale(s, ev)
		return nil
	}
	m.metrics.MessageReceived(context.Background())
	m.log.Debug("Message received", logger.Fields(
		logger.FieldSessionID, s.id,
		logger.FieldEventType, ev.Type,
		logger.FieldEventID, ev.ID,
	))
	return nil
}

func (m *Manager[T]) onError(s *session, ev eventsource.Event, msg string) {
	text := UnknownError
	if ev.Err != nil && ev.Err.Error() != "" {
		text = ev.Err.Error()
	}
	if !m.update(s, func(st *State[T]) {
		st.Connected = false
		st.Error = text
	}) {
		m.stale(s, ev)
		return
	}
	m.metrics.Error(context.Background(), ev.Kind.String())
	m.log.Warn(msg, logger.Fields(
		logger.FieldSessionID, s.id,
		logger.FieldStatus, ev.Status,
		logger.FieldError, text,
	))
}

// update applies fn when s is still the live session and notifies watchers.
func (m *Manager[T]) update(s *session, fn func(*State[T])) bool {
	m.mu.Lock()
	if m.session != s || s.closed {
		m.mu.Unlock()
		return false
	}
	fn(&m.state)
	m.mu.Unlock()

	m.notify()
	return true
}

func (m *Manager[T]) current(s *session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session == s && !s.closed
}

func (m *Manager[T]) stale(s *session, ev eventsource.Event) {
	m.metrics.StaleEvent(context.Background(), ev.Kind.String())
	m.log.Debug("Discarding event from closed session", logger.Fields(
		logger.FieldSessionID, s.id,
		logger.FieldEventType, ev.Kind.String(),
	))
}
