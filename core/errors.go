package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a generation failure. Every error returned by a
// provider boundary carries exactly one kind, which the retry core uses to
// decide between retrying, shrinking the concurrency window, or giving up.
type ErrorKind int

const (
	// KindOther is any failure that is not worth retrying (bad request,
	// invalid API key, malformed response, local I/O failure).
	KindOther ErrorKind = iota

	// KindRateLimited is a quota-exceeded rejection (HTTP 429). Retryable,
	// and signals the adaptive limiter to reduce concurrency.
	KindRateLimited

	// KindServiceOverloaded is a transient server-side failure (HTTP 5xx).
	// Retryable, but does not affect the concurrency window.
	KindServiceOverloaded
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindServiceOverloaded:
		return "service_overloaded"
	default:
		return "other"
	}
}

// GenerationError is a classified failure from an image generation provider.
//
// Providers map whatever transport-level signal they receive (HTTP status,
// SDK error type) into exactly one ErrorKind at their own boundary; the
// batch core never inspects error text.
type GenerationError struct {
	Kind    ErrorKind // Failure classification
	Message string    // Human-readable description
	Err     error     // Underlying cause, if any
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewRateLimitedError creates a GenerationError classified as rate-limited.
func NewRateLimitedError(message string, err error) *GenerationError {
	return &GenerationError{Kind: KindRateLimited, Message: message, Err: err}
}

// NewServiceOverloadedError creates a GenerationError classified as a
// transient server-side failure.
func NewServiceOverloadedError(message string, err error) *GenerationError {
	return &GenerationError{Kind: KindServiceOverloaded, Message: message, Err: err}
}

// NewGenerationError creates a GenerationError with the non-retryable kind.
func NewGenerationError(message string, err error) *GenerationError {
	return &GenerationError{Kind: KindOther, Message: message, Err: err}
}

// ClassifyError extracts the ErrorKind from an error chain.
// Unclassified errors are treated as KindOther.
func ClassifyError(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindOther
}

// IsRateLimited reports whether the error chain contains a rate-limited
// generation error.
func IsRateLimited(err error) bool {
	return ClassifyError(err) == KindRateLimited
}

// IsServiceOverloaded reports whether the error chain contains a transient
// server-side generation error.
func IsServiceOverloaded(err error) bool {
	return ClassifyError(err) == KindServiceOverloaded
}

// IsRetryable reports whether the error is worth retrying at all.
func IsRetryable(err error) bool {
	kind := ClassifyError(err)
	return kind == KindRateLimited || kind == KindServiceOverloaded
}

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeMissingAPIKey   = "MISSING_API_KEY"
	ErrCodeUnknownProvider = "UNKNOWN_PROVIDER"
	ErrCodeInvalidAspect   = "INVALID_ASPECT_RATIO"
	ErrCodeMissingConfig   = "MISSING_CONFIG"
)

// ErrMissingAPIKey returns an error for a missing provider API key.
func ErrMissingAPIKey(provider, envVar string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingAPIKey,
		Message: fmt.Sprintf("Missing API key for %s provider", provider),
		Action:  fmt.Sprintf("Set %s in your .env file or environment", envVar),
	}
}

// ErrUnknownProvider returns an error for an unrecognized provider name.
func ErrUnknownProvider(name string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeUnknownProvider,
		Message: fmt.Sprintf("Unknown image provider '%s'", name),
		Action:  "Set NANOGEN_PROVIDER to 'gemini' or 'openai'",
	}
}

// ErrMissingConfig returns an error for missing required configuration.
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file", varName),
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}
