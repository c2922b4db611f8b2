package subscription

import (
	"github.com/kbukum/livesse/eventsource"
	"github.com/kbukum/livesse/logger"
	"github.com/kbukum/livesse/observability"
)

const defaultName = logger.ComponentSubscription

type options struct {
	name       string
	log        *logger.Logger
	metrics    *observability.SubscriptionMetrics
	decoder    Decoder
	newID      func() string
	streamOpts eventsource.Options
}

func defaultOptions() options {
	return options{
		name:       defaultName,
		decoder:    JSONDecoder{},
		newID:      NewSessionID,
		streamOpts: eventsource.DefaultOptions(),
	}
}

// Option configures a Manager.
type Option func(*options)

// WithName sets the component name used in logs and the registry.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. Defaults to the registered "subscription" logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records session and message metrics.
func WithMetrics(m *observability.SubscriptionMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithDecoder replaces the JSON payload decoder.
func WithDecoder(d Decoder) Option {
	return func(o *options) { o.decoder = d }
}

// WithIDGenerator replaces NewSessionID.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithTransportOptions sets the options passed to every Listen call.
func WithTransportOptions(opts eventsource.Options) Option {
	return func(o *options) { o.streamOpts = opts }
}
