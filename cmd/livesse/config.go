package main

import (
	"fmt"

	"github.com/kbukum/livesse/config"
	"github.com/kbukum/livesse/httpclient"
	"github.com/kbukum/livesse/observability"
	"github.com/kbukum/livesse/subscription"
)

const serviceName = "livesse"

// AppConfig is the livesse config file:
//
//	name: livesse
//	environment: production
//	logging:
//	  level: info
//	subscription:
//	  url: https://api.example.com/jobs/stream
//	  max_retry_count: 5
//	client:
//	  timeout: 30s
//	  auth:
//	    type: bearer # token from CLIENT_AUTH_TOKEN
//	observability:
//	  enabled: true
//	  endpoint: otel-collector:4318
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Subscription  subscription.Config  `yaml:"subscription" mapstructure:"subscription"`
	Client        httpclient.Config    `yaml:"client" mapstructure:"client"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// DefaultAppConfig is loaded before the config file so unset keys keep these
// values.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		ServiceConfig: config.ServiceConfig{Name: serviceName},
		Subscription:  subscription.DefaultConfig(),
		Client:        httpclient.Config{Name: "eventsource"},
	}
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Subscription.ApplyDefaults()
	c.Client.ApplyDefaults()
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Subscription.Validate(); err != nil {
		return fmt.Errorf("subscription: %w", err)
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}
