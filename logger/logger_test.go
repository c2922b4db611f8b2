package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: level, Format: FormatJSON}, "test-svc", &buf)
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l, buf := newJSONLogger(t, "invalid-level")
	l.Debug("hidden")
	l.Info("shown")

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected fallback to info level, got %d lines", len(lines))
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d", len(lines))
	}
	if lines[0]["message"] != "warn" || lines[1]["message"] != "error" {
		t.Errorf("unexpected messages: %v", lines)
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")
	l.WithComponent("subscription").Info("Connection established", Fields(FieldSessionID, "abc1234"))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got[FieldComponent] != "subscription" {
		t.Errorf("expected component 'subscription', got %v", got[FieldComponent])
	}
	if got[FieldSessionID] != "abc1234" {
		t.Errorf("expected session_id 'abc1234', got %v", got[FieldSessionID])
	}
	if got["service"] != "test-svc" {
		t.Errorf("expected service 'test-svc', got %v", got["service"])
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithFields(map[string]interface{}{"url": "http://x"}).WithError(fmt.Errorf("boom")).Error("failed")

	got := decodeLines(t, buf)[0]
	if got["url"] != "http://x" {
		t.Errorf("expected url field, got %v", got["url"])
	}
	if got["error"] != "boom" {
		t.Errorf("expected error field 'boom', got %v", got["error"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("dropped")
	l.WithComponent("x").Info("dropped")
}

func TestInitAndGlobal(t *testing.T) {
	Init(&Config{Level: "info", Format: "json"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}

	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	// Package-level helpers must not panic.
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"valid pretty", Config{Level: "trace", Format: "pretty"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleFormatNoColor(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "svc", &buf)
	l.Warn("careful", Fields("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "[WRN]") {
		t.Errorf("expected [WRN] tag, got %q", out)
	}
	if !strings.Contains(out, "k:v") {
		t.Errorf("expected k:v field, got %q", out)
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("custom-component")
	Register("my-component", l)

	if got := Get("my-component"); got != l {
		t.Error("expected Get to return the registered logger")
	}
	if got := Get("unregistered-component"); got == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestRegisterDefaults(t *testing.T) {
	Init(&Config{Level: "warn", Format: "json"})
	RegisterDefaults()
	t.Cleanup(func() {
		registry.mu.Lock()
		for _, name := range DefaultComponents {
			delete(registry.loggers, name)
		}
		registry.mu.Unlock()
	})

	for _, name := range DefaultComponents {
		first := Get(name)
		if first == nil {
			t.Fatalf("expected a logger for %q", name)
		}
		if Get(name) != first {
			t.Errorf("expected %q to stay bound after RegisterDefaults", name)
		}
	}
	if Get("other") == Get("other") {
		t.Error("unbound names must not be cached")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "connect", "attempt", 2}, map[string]interface{}{"op": "connect", "attempt": 2}},
		{"odd number of args", []interface{}{"op", "connect", "trailing"}, map[string]interface{}{"op": "connect"}},
		{"empty", []interface{}{}, map[string]interface{}{}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Fatalf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorFieldsAndMerge(t *testing.T) {
	fields := ErrorFields("connect", fmt.Errorf("refused"))
	if fields[FieldOperation] != "connect" {
		t.Errorf("expected operation 'connect', got %v", fields[FieldOperation])
	}
	if fields[FieldError] != "refused" {
		t.Errorf("expected error 'refused', got %v", fields[FieldError])
	}

	if _, ok := ErrorFields("noop", nil)[FieldError]; ok {
		t.Error("expected no error field for nil error")
	}

	merged := MergeWithError(nil, fmt.Errorf("late"))
	if merged[FieldError] != "late" {
		t.Errorf("expected error from nil map, got %v", merged[FieldError])
	}
}
