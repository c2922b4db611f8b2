package subscription

import (
	"testing"
	"time"

	"github.com/kbukum/livesse/eventsource"
	"github.com/kbukum/livesse/validation"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "subscription" {
		t.Errorf("expected name 'subscription', got %q", cfg.Name)
	}
	if cfg.MaxRetryCount != 5 {
		t.Errorf("expected 5 retries, got %d", cfg.MaxRetryCount)
	}
	if cfg.RetryStrategy != eventsource.RetryOnError {
		t.Errorf("expected on-error strategy, got %q", cfg.RetryStrategy)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing url", func(c *Config) { c.URL = "" }, "url"},
		{"bad url", func(c *Config) { c.URL = "not a url" }, "url"},
		{"negative retries", func(c *Config) { c.MaxRetryCount = -1 }, "max_retry_count"},
		{"too many retries", func(c *Config) { c.MaxRetryCount = 1000 }, "max_retry_count"},
		{"bad strategy", func(c *Config) { c.RetryStrategy = "sometimes" }, "retry_strategy"},
		{"bad method", func(c *Config) { c.Method = "DELETE" }, "method"},
		{"backoff order", func(c *Config) {
			c.InitialBackoff = time.Second
			c.MaxBackoff = time.Millisecond
		}, "max_backoff"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.URL = "http://localhost:8080/events"
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			found := false
			for _, fe := range validation.Fields(err) {
				if fe.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected failure on %q, got %v", tc.field, err)
			}
		})
	}
}

func TestConfig_ValidateOK(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "https://api.example.com/jobs/stream"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	ft := &fakeTransport{}
	cfg := DefaultConfig()
	cfg.Name = "jobs"
	cfg.URL = "http://localhost:8080/jobs"
	cfg.Headers = map[string]string{"X-Tenant": "acme"}

	m, err := FromConfig[payload](cfg, ft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name() != "jobs" {
		t.Errorf("expected name 'jobs', got %q", m.Name())
	}
	if m.URL() != cfg.URL {
		t.Errorf("expected url %q, got %q", cfg.URL, m.URL())
	}

	m.Connect()
	defer m.Disconnect()
	call := ft.last()
	if call.url != cfg.URL {
		t.Errorf("Listen url = %q, want %q", call.url, cfg.URL)
	}
	if call.opts.Headers["X-Tenant"] != "acme" {
		t.Errorf("expected configured headers, got %v", call.opts.Headers)
	}
}

func TestFromConfig_KeepsZeroRetries(t *testing.T) {
	ft := &fakeTransport{}
	cfg := DefaultConfig()
	cfg.URL = "http://localhost:8080/jobs"
	cfg.MaxRetryCount = 0

	m, err := FromConfig[payload](cfg, ft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Connect()
	defer m.Disconnect()
	if got := ft.last().opts.MaxRetryCount; got != 0 {
		t.Errorf("expected 0 retries, got %d", got)
	}
}

func TestFromConfig_FillsDefaults(t *testing.T) {
	m, err := FromConfig[payload](Config{URL: "http://localhost:8080/jobs"}, &fakeTransport{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name() != "subscription" {
		t.Errorf("expected default name, got %q", m.Name())
	}
	if m.streamOpts.Method != "GET" || m.streamOpts.RetryStrategy != eventsource.RetryOnError {
		t.Errorf("expected default stream options, got %+v", m.streamOpts)
	}
}

func TestFromConfig_Invalid(t *testing.T) {
	if _, err := FromConfig[payload](Config{}, &fakeTransport{}); err == nil {
		t.Fatal("expected error for missing url")
	}
}
