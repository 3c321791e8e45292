package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput    ErrorCode = "INVALID_INPUT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeMissingField    ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat   ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange      ErrorCode = "OUT_OF_RANGE"
	CodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// Quiz generation errors
	CodeParsing    ErrorCode = "PARSING_ERROR"
	CodeProvider   ErrorCode = "PROVIDER_ERROR"
	CodeGeneration ErrorCode = "GENERATION_ERROR"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrQuizNotFound = errors.New("quiz not found")
	ErrTextNotFound = errors.New("extracted text not found")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a detail entry that is surfaced in HTTP error bodies.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string, err error) *DomainError {
	return NewError(CodeNotFound, message, err)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewPayloadTooLargeError(message string) *DomainError {
	return NewError(CodePayloadTooLarge, message, nil)
}

// NewParsingError reports a file whose text could not be extracted.
func NewParsingError(message string, err error) *DomainError {
	return NewError(CodeParsing, message, err)
}

// NewGenerationError reports a quiz generation request that could not complete.
func NewGenerationError(message string, err error) *DomainError {
	return NewError(CodeGeneration, message, err)
}

// HasCode reports whether any DomainError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var de *DomainError
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// ProviderFailure classifies why a provider call failed.
type ProviderFailure string

const (
	FailureAuth              ProviderFailure = "auth"
	FailureRateLimit         ProviderFailure = "rate_limit"
	FailureTimeout           ProviderFailure = "timeout"
	FailureUnavailable       ProviderFailure = "unavailable"
	FailureMalformedResponse ProviderFailure = "malformed_response"
	FailureEmptyResponse     ProviderFailure = "empty_response"
	FailureRetriesExhausted  ProviderFailure = "retries_exhausted"
	FailureNotConfigured     ProviderFailure = "not_configured"
)

// ProviderError is returned by question generators when the upstream LLM call fails.
type ProviderError struct {
	Provider string
	Kind     ProviderFailure
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s provider %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s provider %s", e.Provider, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt could succeed.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case FailureAuth, FailureNotConfigured, FailureRetriesExhausted:
		return false
	default:
		return true
	}
}

func NewProviderError(provider string, kind ProviderFailure, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
