package quizgen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ProviderFailure
	}{
		{name: "rate limit", err: &genai.APIError{Code: 429, Message: "quota exceeded"}, want: domain.FailureRateLimit},
		{name: "bad key", err: fmt.Errorf("generate: %w", &genai.APIError{Code: 403}), want: domain.FailureAuth},
		{name: "server", err: &genai.APIError{Code: 503}, want: domain.FailureUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, want: domain.FailureTimeout},
		{name: "network", err: errors.New("connection refused"), want: domain.FailureUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pe *domain.ProviderError
			require.True(t, errors.As(mapGeminiError(tt.err), &pe))
			assert.Equal(t, tt.want, pe.Kind)
			assert.Equal(t, GeminiProviderName, pe.Provider)
		})
	}
}

func TestNewGeminiBackend_RequiresKey(t *testing.T) {
	_, err := NewGeminiBackend(context.Background(), config.ProviderConfig{Model: "gemini-2.0-flash"})
	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, domain.FailureNotConfigured, pe.Kind)
}
