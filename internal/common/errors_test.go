package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	retryable := &ServiceError{StatusCode: 429, Retryable: true, Cause: errors.New("quota")}
	terminal := &ServiceError{StatusCode: 401, Retryable: false, Cause: errors.New("bad key")}

	if !IsRetryable(retryable) {
		t.Error("429 should be retryable")
	}
	if IsRetryable(terminal) {
		t.Error("401 should not be retryable")
	}
	if IsRetryable(&SchemaError{Detail: "no json"}) {
		t.Error("schema errors are not retryable service errors")
	}

	// retryability must survive wrapping
	wrapped := fmt.Errorf("extract: %w", retryable)
	if !IsRetryable(wrapped) {
		t.Error("wrapped retryable error lost its classification")
	}
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&ConversionError{Path: "a.pdf", Cause: errors.New("corrupt")}, "conversion"},
		{&OCRError{Cause: errors.New("engine down")}, "ocr"},
		{&SchemaError{Detail: "no json object"}, "schema"},
		{&ServiceError{StatusCode: 500, Retryable: true, Cause: errors.New("boom")}, "service"},
		{fmt.Errorf("wrap: %w", &OCRError{Cause: errors.New("x")}), "ocr"},
		{errors.New("plain"), "internal"},
	}
	for _, c := range cases {
		if got := ErrorKind(c.err); got != c.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.Model = "gemini-2.5-flash"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg.LLM.Model = "gpt-4o"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown model identifier must be rejected")
	}

	cfg.LLM.Model = "gemini-2.5-flash"
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing API key must be rejected")
	}
}
