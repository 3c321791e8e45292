// Package quizgen holds the question generators: one Backend per LLM vendor,
// the shared LLMGenerator that chunks, retries and parses for all of them, and
// the mock, chain and cache generators built on top.
package quizgen

import (
	"context"
	"errors"
	"net/http"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/parser"
)

// Backend is a single vendor completion call. Implementations only build the
// vendor request and return the raw reply text.
type Backend interface {
	Name() string
	// Format is the reply format the backend's prompt asks for.
	Format() parser.Format
	Complete(ctx context.Context, prompt string) (string, error)
}

// classifyError maps an arbitrary backend error onto a ProviderError.
func classifyError(provider string, err error) error {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.NewProviderError(provider, domain.FailureTimeout, err)
	default:
		return domain.NewProviderError(provider, domain.FailureUnavailable, err)
	}
}

// failureForStatus maps an HTTP status returned by a vendor API.
func failureForStatus(status int) domain.ProviderFailure {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.FailureAuth
	case status == http.StatusTooManyRequests:
		return domain.FailureRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return domain.FailureTimeout
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.FailureMalformedResponse
	default:
		return domain.FailureUnavailable
	}
}
