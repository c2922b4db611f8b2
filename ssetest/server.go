package ssetest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/kbukum/livesse/logger"
)

// Routes served by a Server.
const (
	PathEvents = "/events"
	PathStatus = "/status/:code"
	PathPlain  = "/plain"
)

// Event is one message pushed to connected clients.
type Event struct {
	ID    string
	Event string
	Data  string
}

type client struct {
	id     int
	events chan Event
	done   chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// Server is an event-stream endpoint backed by httptest.
type Server struct {
	srv *httptest.Server
	log *logger.Logger

	mu       sync.Mutex
	clients  map[int]*client
	nextID   int
	lastIDs  []string
	joined   chan struct{}
	hits     atomic.Int32
	shutdown chan struct{}
	stopOnce sync.Once
}

// New starts a Server. It is closed when the test ends.
func New(tb testing.TB) *Server {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		log:      logger.Nop(),
		clients:  make(map[int]*client),
		joined:   make(chan struct{}, 64),
		shutdown: make(chan struct{}),
	}

	router := gin.New()
	router.Match([]string{http.MethodGet, http.MethodPost}, PathEvents, s.serveEvents)
	router.Any(PathStatus, s.serveStatus)
	router.Any(PathPlain, s.servePlain)

	s.srv = httptest.NewServer(router)
	tb.Cleanup(s.Close)
	return s
}

// URL returns the absolute URL of path on the server.
func (s *Server) URL(path string) string {
	return s.srv.URL + path
}

// EventsURL is URL(PathEvents).
func (s *Server) EventsURL() string {
	return s.URL(PathEvents)
}

// StatusURL returns a route that always answers with code.
func (s *Server) StatusURL(code int) string {
	return s.URL("/status/" + strconv.Itoa(code))
}

// Hits reports how many requests reached any route.
func (s *Server) Hits() int {
	return int(s.hits.Load())
}

// LastEventIDs returns the Last-Event-ID header of every stream request in
// arrival order; requests without one are recorded as "".
func (s *Server) LastEventIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lastIDs...)
}

// Clients returns the number of open streams.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// WaitForClients blocks until n streams are open.
func (s *Server) WaitForClients(ctx context.Context, n int) error {
	for {
		if s.Clients() >= n {
			return nil
		}
		select {
		case <-s.joined:
		case <-time.After(10 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Publish sends ev to every open stream. Slow clients drop the event.
func (s *Server) Publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		select {
		case c.events <- ev:
		default:
			s.log.Warn("Client channel full, dropping message", logger.Fields("client_id", c.id))
		}
	}
}

// DropClients ends every open stream cleanly from the server side.
func (s *Server) DropClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		c.close()
		delete(s.clients, id)
	}
}

// Close ends all streams and shuts the server down.
func (s *Server) Close() {
	s.stopOnce.Do(func() {
		close(s.shutdown)
		s.DropClients()
		s.srv.CloseClientConnections()
		s.srv.Close()
	})
}

func (s *Server) register(lastID string) *client {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := &client{
		id:     s.nextID,
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	s.clients[c.id] = c
	s.lastIDs = append(s.lastIDs, lastID)
	select {
	case s.joined <- struct{}{}:
	default:
	}
	return c
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c.id)
}

func (s *Server) serveEvents(c *gin.Context) {
	s.hits.Add(1)
	cl := s.register(c.GetHeader("Last-Event-ID"))
	defer s.unregister(cl)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		case <-cl.done:
			return
		case ev := <-cl.events:
			c.Render(-1, sse.Event{Id: ev.ID, Event: ev.Event, Data: ev.Data})
			c.Writer.Flush()
		}
	}
}

func (s *Server) serveStatus(c *gin.Context) {
	s.hits.Add(1)
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 100 || code > 599 {
		c.String(http.StatusBadRequest, "bad status %q", c.Param("code"))
		return
	}
	c.String(code, http.StatusText(code))
}

func (s *Server) servePlain(c *gin.Context) {
	s.hits.Add(1)
	c.String(http.StatusOK, "not an event stream")
}
