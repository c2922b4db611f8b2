package eventsource

import (
	"net/http"
	"time"

	"github.com/kbukum/livesse/validation"
)

// RetryStrategy decides when a stream reconnects.
type RetryStrategy string

const (
	// RetryOnError reconnects only after transport errors.
	RetryOnError RetryStrategy = "on-error"
	// RetryAlways also reconnects after the server closes the stream cleanly.
	RetryAlways RetryStrategy = "always"
)

const (
	defaultMaxRetryCount  = 5
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 10 * time.Second
)

// Options configures one stream.
type Options struct {
	// MaxRetryCount is how many reconnects a stream may make over its
	// whole lifetime. Zero disables reconnecting.
	MaxRetryCount int `yaml:"max_retry_count" mapstructure:"max_retry_count" validate:"gte=0,lte=100"`
	// RetryStrategy selects when to reconnect.
	RetryStrategy RetryStrategy `yaml:"retry_strategy" mapstructure:"retry_strategy" validate:"oneof=on-error always"`
	// Method is the HTTP method. Defaults to GET.
	Method string `yaml:"method" mapstructure:"method" validate:"oneof=GET POST"`
	// Headers are added to every connection attempt.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// InitialBackoff is the delay before the first reconnect.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff" validate:"gte=0"`
	// MaxBackoff caps the delay between reconnects.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff" validate:"gtefield=InitialBackoff"`
}

// DefaultOptions returns five reconnects on transport errors over GET.
func DefaultOptions() Options {
	return Options{
		MaxRetryCount:  defaultMaxRetryCount,
		RetryStrategy:  RetryOnError,
		Method:         http.MethodGet,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
	}
}

// ApplyDefaults fills zero-value fields other than MaxRetryCount, whose
// zero value is meaningful.
func (o *Options) ApplyDefaults() {
	if o.RetryStrategy == "" {
		o.RetryStrategy = RetryOnError
	}
	if o.Method == "" {
		o.Method = http.MethodGet
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = defaultInitialBackoff
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = defaultMaxBackoff
	}
	if o.MaxBackoff < o.InitialBackoff {
		o.MaxBackoff = o.InitialBackoff
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	return validation.ValidateStruct(o)
}
