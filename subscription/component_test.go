package subscription

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/livesse/component"
	"github.com/kbukum/livesse/eventsource"
)

func TestManager_Health(t *testing.T) {
	m, ft := newTestManager(t)
	ctx := context.Background()

	if h := m.Health(ctx); h.Status != component.StatusUnhealthy || h.Message != "not connected" {
		t.Errorf("idle: got %+v", h)
	}

	m.Connect()
	if h := m.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("connected: got %+v", h)
	}

	_ = emit(t, ft.last(), eventsource.Event{Kind: eventsource.KindRequestError, Err: errors.New("connection refused")})
	h := m.Health(ctx)
	if h.Status != component.StatusDegraded || h.Message != "connection refused" {
		t.Errorf("failed session: got %+v", h)
	}

	m.Disconnect()
	h = m.Health(ctx)
	if h.Status != component.StatusUnhealthy || h.Message != "connection refused" {
		t.Errorf("disconnected after error: got %+v", h)
	}
}

func TestManager_Describe(t *testing.T) {
	opts := eventsource.DefaultOptions()
	opts.MaxRetryCount = 2
	opts.RetryStrategy = eventsource.RetryAlways
	m, _ := newTestManager(t, WithName("jobs"), WithTransportOptions(opts))

	d := m.Describe()
	if d.Type != "subscription" {
		t.Errorf("expected type 'subscription', got %q", d.Type)
	}
	for _, want := range []string{m.URL(), "retries=2", "strategy=always"} {
		if !strings.Contains(d.Details, want) {
			t.Errorf("details %q missing %q", d.Details, want)
		}
	}
}

func TestManager_Registry(t *testing.T) {
	m, ft := newTestManager(t, WithName("jobs"))
	r := component.NewRegistry()
	if err := r.Register(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Get("jobs") == nil {
		t.Fatal("expected manager to be registered under its name")
	}

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ft.count() != 1 || !m.State().Connected {
		t.Fatalf("expected one connected session, got %d calls, state %+v", ft.count(), m.State())
	}
	if got := component.Overall(r.HealthAll(ctx)); got != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", got)
	}

	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ft.last().ctrl.aborts.Load() != 1 {
		t.Error("expected stream to be aborted on stop")
	}
	if m.State().Active() {
		t.Errorf("expected no session after stop, got %+v", m.State())
	}
}
