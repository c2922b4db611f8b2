package httpclient

import (
	"fmt"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// Name identifies the client in logs.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds how long a request waits for response headers.
	// Streams stay open past it; only their context ends them. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth configures default authentication applied to all requests.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = "http"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.Auth.enabled() {
		switch c.Auth.Type {
		case AuthBearer:
			if c.Auth.Token == "" {
				return fmt.Errorf("httpclient: bearer auth requires a token")
			}
		case AuthBasic:
			if c.Auth.Username == "" {
				return fmt.Errorf("httpclient: basic auth requires a username")
			}
		case AuthAPIKey:
			if c.Auth.Key == "" {
				return fmt.Errorf("httpclient: api_key auth requires a key")
			}
		case AuthCustom:
			if c.Auth.Apply == nil {
				return fmt.Errorf("httpclient: custom auth requires an apply function")
			}
		default:
			return fmt.Errorf("httpclient: unknown auth type %q", c.Auth.Type)
		}
	}
	return nil
}
