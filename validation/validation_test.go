package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/livesse/errors"
)

type sample struct {
	URL      string `mapstructure:"url" validate:"required,url"`
	Retries  int    `mapstructure:"max_retry_count" validate:"gte=0,lte=100"`
	Strategy string `yaml:"retry_strategy" validate:"oneof=on-error always"`
	Display  string `validate:"max=5"`
	Ignored  string `mapstructure:"-"`
}

func TestValidateStructValid(t *testing.T) {
	s := sample{URL: "http://localhost/events", Retries: 5, Strategy: "always"}
	if err := ValidateStruct(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStructInvalid(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		field   string
		message string
	}{
		{"missing url", sample{Strategy: "always"}, "url", "is required"},
		{"bad url", sample{URL: "not a url", Strategy: "always"}, "url", "must be a valid URL"},
		{"negative retries", sample{URL: "http://x", Retries: -1, Strategy: "always"}, "max_retry_count", "must be at least 0"},
		{"too many retries", sample{URL: "http://x", Retries: 101, Strategy: "always"}, "max_retry_count", "must be at most 100"},
		{"bad strategy", sample{URL: "http://x", Strategy: "never"}, "retry_strategy", "must be one of: on-error always"},
		{"snake case fallback", sample{URL: "http://x", Strategy: "always", Display: "toolong"}, "display", "must be at most 5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(tc.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
			fields := Fields(err)
			if len(fields) != 1 {
				t.Fatalf("expected 1 field error, got %+v", fields)
			}
			if fields[0].Field != tc.field || fields[0].Message != tc.message {
				t.Errorf("got %+v, want {%s %s}", fields[0], tc.field, tc.message)
			}
			if !strings.Contains(err.Error(), tc.field+": "+tc.message) {
				t.Errorf("message %q should mention the field", err.Error())
			}
		})
	}
}

func TestValidateStructNonStruct(t *testing.T) {
	if err := ValidateStruct("nope"); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for non-struct, got %v", err)
	}
}

func TestFieldsOnPlainError(t *testing.T) {
	if Fields(nil) != nil {
		t.Error("expected nil fields for nil error")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"MaxRetryCount": "max_retry_count",
		"URL":           "u_r_l",
		"name":          "name",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
