package subscription

import (
	"context"
	"fmt"

	"github.com/kbukum/livesse/component"
)

var (
	_ component.Component   = (*Manager[any])(nil)
	_ component.Describable = (*Manager[any])(nil)
)

// Name returns the component name.
func (m *Manager[T]) Name() string {
	return m.name
}

// Start connects. The stream runs until Stop or Disconnect.
func (m *Manager[T]) Start(_ context.Context) error {
	m.Connect()
	return nil
}

// Stop disconnects.
func (m *Manager[T]) Stop(_ context.Context) error {
	m.Disconnect()
	return nil
}

// Health maps the subscription state to a component health.
func (m *Manager[T]) Health(_ context.Context) component.Health {
	st := m.State()
	h := component.Health{Name: m.name}
	switch {
	case st.Connected:
		h.Status = component.StatusHealthy
	case st.Active():
		h.Status = component.StatusDegraded
		h.Message = st.Error
	default:
		h.Status = component.StatusUnhealthy
		h.Message = "not connected"
		if st.Error != "" {
			h.Message = st.Error
		}
	}
	return h
}

// Describe returns a one-line summary for startup output.
func (m *Manager[T]) Describe() component.Description {
	return component.Description{
		Name: "SSE Subscription",
		Type: "subscription",
		Details: fmt.Sprintf("%s retries=%d strategy=%s",
			m.url, m.streamOpts.MaxRetryCount, m.streamOpts.RetryStrategy),
	}
}
