package component

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
	stopCtx    context.Context
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopCtx = ctx
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct {
	mockComponent
	desc Description
}

func (d *describedComponent) Describe() Description { return d.desc }

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "jobs"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "jobs"}); err == nil {
		t.Error("expected error for duplicate registration")
	}

	if got := r.Get("jobs"); got == nil || got.Name() != "jobs" {
		t.Fatalf("expected registered component, got %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAllOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "telemetry", startOrder: &order})
	r.Register(&mockComponent{name: "jobs", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if strings.Join(order, ",") != "telemetry,jobs" {
		t.Errorf("expected start order [telemetry jobs], got %v", order)
	}

	// Already started components are not started twice.
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("second StartAll failed: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("expected no restarts, got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "jobs", startErr: fmt.Errorf("connection refused")})
	r.Register(&mockComponent{name: "after", startOrder: &order})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "jobs") {
		t.Fatalf("expected start error naming the component, got %v", err)
	}
	if len(order) != 0 {
		t.Errorf("components after a failure must not start, got %v", order)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "a", stopOrder: &order})
	r.Register(&mockComponent{name: "b", stopOrder: &order})
	r.Register(&mockComponent{name: "c", stopOrder: &order})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if strings.Join(order, ",") != "c,b,a" {
		t.Errorf("expected reverse stop order [c b a], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "jobs", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "a", stopErr: fmt.Errorf("first")})
	r.Register(&mockComponent{name: "b", stopErr: fmt.Errorf("second")})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	if !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestStopTimeout(t *testing.T) {
	r := NewRegistry()
	r.SetStopTimeout(50 * time.Millisecond)
	c := &mockComponent{name: "jobs"}
	r.Register(c)
	r.StartAll(context.Background())
	r.StopAll(context.Background())

	deadline, ok := c.stopCtx.Deadline()
	if !ok {
		t.Fatal("expected stop context to carry a deadline")
	}
	if time.Until(deadline) > 50*time.Millisecond {
		t.Errorf("deadline too far away: %v", time.Until(deadline))
	}
}

func TestHealthAllAndOverall(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded, Message: "Request error"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Status != StatusDegraded {
		t.Errorf("expected b degraded, got %s", results[1].Status)
	}
	if got := Overall(results); got != StatusDegraded {
		t.Errorf("Overall = %s, want degraded", got)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name string
		in   []HealthStatus
		want HealthStatus
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []HealthStatus{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"degraded", []HealthStatus{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins over degraded", []HealthStatus{StatusDegraded, StatusUnhealthy, StatusDegraded}, StatusUnhealthy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var hs []Health
			for _, s := range tc.in {
				hs = append(hs, Health{Status: s})
			}
			if got := Overall(hs); got != tc.want {
				t.Errorf("Overall = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "plain"})
	r.Register(&describedComponent{
		mockComponent: mockComponent{name: "jobs"},
		desc:          Description{Type: "subscription", Details: "http://x retries=5"},
	})

	descs := r.Describe()
	if len(descs) != 1 {
		t.Fatalf("expected 1 description, got %d", len(descs))
	}
	if descs[0].Name != "jobs" {
		t.Errorf("expected name to default to component name, got %q", descs[0].Name)
	}
}
