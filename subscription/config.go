package subscription

import (
	"github.com/kbukum/livesse/eventsource"
	"github.com/kbukum/livesse/validation"
)

// Config describes a subscription in a config file:
//
//	subscription:
//	  url: https://api.example.com/jobs/stream
//	  max_retry_count: 5
//	  retry_strategy: on-error
type Config struct {
	// Name identifies the subscription in logs and the component registry.
	Name string `yaml:"name" mapstructure:"name"`
	// URL is the event stream endpoint.
	URL string `yaml:"url" mapstructure:"url" validate:"required,url"`

	eventsource.Options `yaml:",inline" mapstructure:",squash"`
}

// DefaultConfig returns a Config with default stream options. Load config
// files on top of it so an explicit max_retry_count of 0 is kept.
func DefaultConfig() Config {
	return Config{
		Name:    defaultName,
		Options: eventsource.DefaultOptions(),
	}
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	c.Options.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c)
}

// FromConfig builds a Manager from cfg. Options in opts win over cfg.
func FromConfig[T any](cfg Config, transport Transport, opts ...Option) (*Manager[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := []Option{WithName(cfg.Name), WithTransportOptions(cfg.Options)}
	return New[T](cfg.URL, transport, append(base, opts...)...), nil
}
