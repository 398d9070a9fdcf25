package gameloc

import (
	"errors"
	"fmt"
	"testing"
)

func TestTranslationError(t *testing.T) {
	cause := errors.New("underlying error")
	err := &TranslationError{Message: "translation failed", Cause: cause}

	if err.Error() != "translation failed: underlying error" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}

	// Without cause
	err2 := &TranslationError{Message: "simple error"}
	if err2.Error() != "simple error" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Message: "rate limited", Retryable: true}

	if err.Error() != "provider error: rate limited" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if !err.Retryable {
		t.Error("error should be retryable")
	}

	named := &ProviderError{Provider: "deepseek", Message: "API call failed", Cause: errors.New("EOF")}
	if named.Error() != "provider error (deepseek): API call failed: EOF" {
		t.Errorf("unexpected error message: %s", named.Error())
	}
}

func TestConfigurationError(t *testing.T) {
	cause := errors.New("401 Unauthorized")
	err := &ConfigurationError{Message: "openai: authentication failed", Cause: cause}

	if err.Error() != "configuration error: openai: authentication failed: 401 Unauthorized" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	if !IsConfigurationError(fmt.Errorf("batch: %w", err)) {
		t.Error("IsConfigurationError should see through wrapping")
	}

	if IsConfigurationError(&ProviderError{Message: "x"}) {
		t.Error("a provider error is not a configuration error")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "source_text", Message: "text is empty"}

	if err.Error() != "validation error: source_text: text is empty" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should match")
	}

	bare := &ValidationError{Message: "bad input"}
	if bare.Error() != "validation error: bad input" {
		t.Errorf("unexpected error message: %s", bare.Error())
	}
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Message: "connection failed"}

	if err.Error() != "cache error: connection failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}
