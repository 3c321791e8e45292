package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/parser"

	openai "github.com/sashabaranov/go-openai"
)

const (
	GroqProviderName   = "groq"
	OpenAIProviderName = "openai"
)

const chatSystemPrompt = "You are an expert educator who creates high-quality quiz questions from study materials. Always respond with valid JSON only."

// ChatBackend calls an OpenAI-compatible chat completion API. Groq is served
// through its OpenAI-compatible endpoint.
type ChatBackend struct {
	name   string
	client *openai.Client
	model  string
}

var _ Backend = (*ChatBackend)(nil)

// NewChatBackend builds the backend for name ("groq" or "openai"). httpClient
// may be nil.
func NewChatBackend(name string, cfg config.ProviderConfig, httpClient *http.Client) (*ChatBackend, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewProviderError(name, domain.FailureNotConfigured, fmt.Errorf("%s API key is not set", name))
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	return &ChatBackend{
		name:   name,
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

func (b *ChatBackend) Name() string          { return b.name }
func (b *ChatBackend) Format() parser.Format { return parser.FormatJSON }

func (b *ChatBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   4000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", b.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewProviderError(b.name, domain.FailureMalformedResponse, errors.New("no choices in response"))
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *ChatBackend) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(b.name, failureForStatus(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return domain.NewProviderError(b.name, failureForStatus(reqErr.HTTPStatusCode), err)
	}
	return classifyError(b.name, err)
}
