package subscription

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/livesse/eventsource"
	"github.com/kbukum/livesse/logger"
	"github.com/kbukum/livesse/ssetest"
)

func fastOptions(retries int, strategy eventsource.RetryStrategy) eventsource.Options {
	opts := eventsource.DefaultOptions()
	opts.MaxRetryCount = retries
	opts.RetryStrategy = strategy
	opts.InitialBackoff = time.Millisecond
	opts.MaxBackoff = 5 * time.Millisecond
	return opts
}

func newLiveManager(url string, opts eventsource.Options) *Manager[payload] {
	tr := eventsource.NewTransport(nil, eventsource.WithLogger(logger.Nop()))
	return New[payload](url, tr, WithLogger(logger.Nop()), WithTransportOptions(opts))
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitClients(t *testing.T, srv *ssetest.Server, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := srv.WaitForClients(ctx, n); err != nil {
		t.Fatalf("waiting for %d clients: %v", n, err)
	}
}

func TestIntegration_Messages(t *testing.T) {
	srv := ssetest.New(t)
	m := newLiveManager(srv.EventsURL(), fastOptions(0, eventsource.RetryOnError))

	m.Connect()
	defer m.Disconnect()
	waitClients(t, srv, 1)

	srv.Publish(ssetest.Event{ID: "1", Data: `{"x_attr":"a"}`})
	eventually(t, "first message", func() bool {
		d := m.State().Data
		return d != nil && d.XAttr == "a"
	})

	srv.Publish(ssetest.Event{ID: "2", Event: "update", Data: `{"x_attr":"b"}`})
	eventually(t, "second message", func() bool {
		d := m.State().Data
		return d != nil && d.XAttr == "b"
	})

	st := m.State()
	if !st.Connected || st.Error != "" || !pidPattern.MatchString(st.PID) {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestIntegration_ResponseErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(*ssetest.Server) string
		want string
	}{
		{"server error", func(s *ssetest.Server) string { return s.StatusURL(http.StatusInternalServerError) }, "HTTP 500"},
		{"not found", func(s *ssetest.Server) string { return s.StatusURL(http.StatusNotFound) }, "HTTP 404"},
		{"wrong content type", func(s *ssetest.Server) string { return s.URL(ssetest.PathPlain) }, "text/plain"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := ssetest.New(t)
			m := newLiveManager(tc.path(srv), fastOptions(3, eventsource.RetryOnError))

			m.Connect()
			defer m.Disconnect()
			eventually(t, "error state", func() bool { return m.State().Error != "" })

			st := m.State()
			if st.Connected {
				t.Error("expected Connected=false")
			}
			if !strings.Contains(st.Error, tc.want) {
				t.Errorf("error %q does not mention %q", st.Error, tc.want)
			}
			time.Sleep(30 * time.Millisecond)
			if srv.Hits() != 1 {
				t.Errorf("response errors must not be retried, got %d requests", srv.Hits())
			}
		})
	}
}

func TestIntegration_ConnectionRefused(t *testing.T) {
	srv := ssetest.New(t)
	url := srv.EventsURL()
	srv.Close()

	m := newLiveManager(url, fastOptions(2, eventsource.RetryOnError))
	m.Connect()
	defer m.Disconnect()

	eventually(t, "request error", func() bool { return m.State().Error != "" })
	st := m.State()
	if st.Connected || !st.Active() {
		t.Errorf("expected a failed but live session, got %+v", st)
	}
}

func TestIntegration_MalformedURL(t *testing.T) {
	m := newLiveManager("http://[::1", fastOptions(2, eventsource.RetryOnError))
	m.Connect()
	defer m.Disconnect()

	eventually(t, "request error", func() bool { return m.State().Error != "" })
	st := m.State()
	if st.Connected || !st.Active() {
		t.Errorf("expected a failed but live session, got %+v", st)
	}
	if !strings.Contains(st.Error, "create request") || strings.Contains(st.Error, "HTTP") {
		t.Errorf("unexpected error %q", st.Error)
	}
}

func TestIntegration_ReconnectSendsLastEventID(t *testing.T) {
	srv := ssetest.New(t)
	m := newLiveManager(srv.EventsURL(), fastOptions(3, eventsource.RetryAlways))

	m.Connect()
	defer m.Disconnect()
	waitClients(t, srv, 1)

	srv.Publish(ssetest.Event{ID: "7", Data: `{"x_attr":"seven"}`})
	eventually(t, "message", func() bool { return m.State().Data != nil })

	srv.DropClients()
	eventually(t, "reconnect", func() bool { return len(srv.LastEventIDs()) == 2 })

	if got, want := srv.LastEventIDs(), []string{"", "7"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Last-Event-ID = %q, want %q", got, want)
	}
	if d := m.State().Data; d == nil || d.XAttr != "seven" {
		t.Errorf("expected data to survive the reconnect, got %+v", d)
	}
}

func TestIntegration_DisconnectClosesStream(t *testing.T) {
	srv := ssetest.New(t)
	m := newLiveManager(srv.EventsURL(), fastOptions(5, eventsource.RetryAlways))

	m.Connect()
	waitClients(t, srv, 1)

	m.Disconnect()
	eventually(t, "stream close", func() bool { return srv.Clients() == 0 })

	time.Sleep(30 * time.Millisecond)
	if srv.Hits() != 1 {
		t.Errorf("expected no reconnect after disconnect, got %d requests", srv.Hits())
	}
	if st := m.State(); st.Active() || st.Connected || st.Data != nil {
		t.Errorf("expected idle state, got %+v", st)
	}
}

func TestIntegration_ReconnectReplacesStream(t *testing.T) {
	srv := ssetest.New(t)
	m := newLiveManager(srv.EventsURL(), fastOptions(0, eventsource.RetryOnError))

	m.Connect()
	waitClients(t, srv, 1)
	first := m.State().PID

	m.Connect()
	defer m.Disconnect()
	eventually(t, "second stream", func() bool { return srv.Hits() == 2 && srv.Clients() == 1 })

	if m.State().PID == first {
		t.Error("expected a new session id")
	}
}
