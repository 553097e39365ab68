package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/chatkit/errors"
)

type backendConfig struct {
	Host      string `mapstructure:"host" validate:"required,url"`
	Model     string `mapstructure:"model" validate:"required"`
	KeepAlive string `mapstructure:"keep_alive" validate:"keepalive"`
	Retries   int    `json:"retries" validate:"gte=0,lte=5"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		cfg        backendConfig
		wantFields []string
	}{
		{"valid", backendConfig{Host: "http://localhost:11434", Model: "llama3.1"}, nil},
		{"valid keep alive duration", backendConfig{Host: "http://h:1", Model: "m", KeepAlive: "5m"}, nil},
		{"valid keep alive seconds", backendConfig{Host: "http://h:1", Model: "m", KeepAlive: "-1"}, nil},
		{"missing host and model", backendConfig{}, []string{"host", "model"}},
		{"bad url", backendConfig{Host: "not a url", Model: "m"}, []string{"host"}},
		{"bad keep alive", backendConfig{Host: "http://h:1", Model: "m", KeepAlive: "forever"}, []string{"keep_alive"}},
		{"json tag name", backendConfig{Host: "http://h:1", Model: "m", Retries: 9}, []string{"retries"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			appErr, _ := errors.AsAppError(err)
			fields, ok := appErr.Details["fields"].([]FieldError)
			if !ok {
				t.Fatalf("expected field details, got %#v", appErr.Details)
			}
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("expected %d field errors, got %v", len(tt.wantFields), fields)
			}
			for i, want := range tt.wantFields {
				if fields[i].Field != want {
					t.Errorf("field %d: expected %q, got %q", i, want, fields[i].Field)
				}
			}
		})
	}
}

func TestValidator_Chain(t *testing.T) {
	temp := 3.5
	topP := 0.9
	neg := -2
	neg64 := -0.5
	big := 250.0

	v := New().
		Required("model", "").
		FloatRange("temperature", &temp, 0, 2).
		FloatRange("top_p", &topP, 0, 1).
		FloatRange("unset", nil, 0, 1).
		FloatMin("min_p", &neg64, 0).
		FloatMin("no_cap", &big, 0).
		IntMin("num_ctx", &neg, 0).
		IntMin("seed", nil, 0).
		OneOf("format", "xml", []string{"json", "console"}).
		Custom(false, "stop", "must not be empty")

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	got := make([]string, 0, len(v.Errors()))
	for _, e := range v.Errors() {
		got = append(got, e.Field)
	}
	want := []string{"model", "temperature", "min_p", "num_ctx", "format", "stop"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected fields %v, got %v", want, got)
	}

	err := v.Err()
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !strings.Contains(err.Error(), "temperature: must be between 0 and 2") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidator_NoErrors(t *testing.T) {
	v := New().Required("model", "llama3").Min("timeout", 5, 0).OneOf("format", "", []string{"json"})
	if v.HasErrors() {
		t.Fatalf("expected no errors, got %v", v.Errors())
	}
	if v.Validate() != nil {
		t.Error("expected nil AppError")
	}
	if v.Err() != nil {
		t.Error("expected nil error")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Host":      "host",
		"KeepAlive": "keep_alive",
		"model":     "model",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
