package quizgen

import (
	"context"
	"errors"
	"fmt"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/parser"

	"google.golang.org/genai"
)

const GeminiProviderName = "gemini"

// GeminiBackend calls the Gemini API and asks for the delimited text format.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

var _ Backend = (*GeminiBackend)(nil)

func NewGeminiBackend(ctx context.Context, cfg config.ProviderConfig) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewProviderError(GeminiProviderName, domain.FailureNotConfigured, errors.New("GEMINI_API_KEY is not set"))
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiBackend{client: client, model: cfg.Model}, nil
}

func (b *GeminiBackend) Name() string          { return GeminiProviderName }
func (b *GeminiBackend) Format() parser.Format { return parser.FormatText }

func (b *GeminiBackend) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.7)
	result, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4000,
	})
	if err != nil {
		return "", mapGeminiError(err)
	}
	return result.Text(), nil
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(GeminiProviderName, failureForStatus(apiErr.Code), err)
	}
	return classifyError(GeminiProviderName, err)
}
