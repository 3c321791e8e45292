package quizgen

import (
	"context"
	"errors"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/parser"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const AnthropicProviderName = "anthropic"

// AnthropicBackend calls the Anthropic Messages API and asks for JSON.
type AnthropicBackend struct {
	client *anthropic.Client
	model  string
}

var _ Backend = (*AnthropicBackend)(nil)

func NewAnthropicBackend(cfg config.ProviderConfig) (*AnthropicBackend, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewProviderError(AnthropicProviderName, domain.FailureNotConfigured, errors.New("ANTHROPIC_API_KEY is not set"))
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retries are handled by LLMGenerator
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicBackend{client: &client, model: cfg.Model}, nil
}

func (b *AnthropicBackend) Name() string          { return AnthropicProviderName }
func (b *AnthropicBackend) Format() parser.Format { return parser.FormatJSON }

func (b *AnthropicBackend) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: 4000,
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)},
		}},
	})
	if err != nil {
		return "", mapAnthropicError(err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", domain.NewProviderError(AnthropicProviderName, domain.FailureEmptyResponse, errors.New("no text content in response"))
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(AnthropicProviderName, failureForStatus(apiErr.StatusCode), err)
	}
	return classifyError(AnthropicProviderName, err)
}
