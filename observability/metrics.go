package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names recorded by SubscriptionMetrics.
const (
	MetricSessionsOpened   = "subscription.sessions.opened"
	MetricSessionsClosed   = "subscription.sessions.closed"
	MetricSessionsActive   = "subscription.sessions.active"
	MetricMessagesReceived = "subscription.messages.received"
	MetricMessagesFailed   = "subscription.messages.failed"
	MetricErrors           = "subscription.errors"
	MetricStaleEvents      = "subscription.events.stale"
)

// AttrKind is the attribute key for error and event kinds.
const AttrKind = "kind"

// SubscriptionMetrics holds the instruments for subscription lifecycles.
// All methods are safe to call on a nil receiver.
type SubscriptionMetrics struct {
	opened   metric.Int64Counter
	closed   metric.Int64Counter
	active   metric.Int64UpDownCounter
	received metric.Int64Counter
	failed   metric.Int64Counter
	errors   metric.Int64Counter
	stale    metric.Int64Counter
}

// NewSubscriptionMetrics creates the subscription instruments on meter.
func NewSubscriptionMetrics(meter metric.Meter) (*SubscriptionMetrics, error) {
	m := &SubscriptionMetrics{}
	var err error

	if m.opened, err = meter.Int64Counter(MetricSessionsOpened,
		metric.WithDescription("Subscription sessions opened"),
	); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricSessionsOpened, err)
	}
	if m.closed, err = meter.Int64Counter(MetricSessionsClosed,
		metric.WithDescription("Subscription sessions closed"),
	); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricSessionsClosed, err)
	}
	if m.active, err = meter.Int64UpDownCounter(MetricSessionsActive,
		metric.WithDescription("Subscription sessions currently open"),
	); err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricSessionsActive, err)
	}
	if m.received, err = meter.Int64Counter(MetricMessagesReceived,
		metric.WithDescription("Messages decoded and applied to state"),
	); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricMessagesReceived, err)
	}
	if m.failed, err = meter.Int64Counter(MetricMessagesFailed,
		metric.WithDescription("Messages that failed to decode"),
	); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricMessagesFailed, err)
	}
	if m.errors, err = meter.Int64Counter(MetricErrors,
		metric.WithDescription("Request and response errors by kind"),
	); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}
	if m.stale, err = meter.Int64Counter(MetricStaleEvents,
		metric.WithDescription("Transport events discarded because their session ended"),
	); err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStaleEvents, err)
	}

	return m, nil
}

// SessionOpened records a new session.
func (m *SubscriptionMetrics) SessionOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.opened.Add(ctx, 1)
	m.active.Add(ctx, 1)
}

// SessionClosed records the end of a session.
func (m *SubscriptionMetrics) SessionClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.closed.Add(ctx, 1)
	m.active.Add(ctx, -1)
}

// MessageReceived records a successfully applied message.
func (m *SubscriptionMetrics) MessageReceived(ctx context.Context) {
	if m == nil {
		return
	}
	m.received.Add(ctx, 1)
}

// MessageFailed records a message that could not be decoded.
func (m *SubscriptionMetrics) MessageFailed(ctx context.Context) {
	if m == nil {
		return
	}
	m.failed.Add(ctx, 1)
}

// Error records a request or response error.
func (m *SubscriptionMetrics) Error(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKind, kind)))
}

// StaleEvent records an event dropped because its session is gone.
func (m *SubscriptionMetrics) StaleEvent(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.stale.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKind, kind)))
}
