package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/parser"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/huggingface"
	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	OllamaProviderName      = "ollama"
	HuggingFaceProviderName = "huggingface"
)

// caller is the subset of a langchaingo model used here.
type caller interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// LangChainBackend drives a langchaingo model with the text prompt format.
type LangChainBackend struct {
	name string
	llm  caller
	opts []llms.CallOption
}

var _ Backend = (*LangChainBackend)(nil)

func NewOllamaBackend(cfg config.ProviderConfig, httpClient *http.Client) (*LangChainBackend, error) {
	if cfg.BaseURL == "" {
		return nil, domain.NewProviderError(OllamaProviderName, domain.FailureNotConfigured, errors.New("ollama server URL is not set"))
	}
	opts := []ollama.Option{
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	}
	if httpClient != nil {
		opts = append(opts, ollama.WithHTTPClient(httpClient))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return &LangChainBackend{
		name: OllamaProviderName,
		llm:  llm,
		opts: []llms.CallOption{llms.WithTemperature(0.7)},
	}, nil
}

func NewHuggingFaceBackend(cfg config.ProviderConfig) (*LangChainBackend, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewProviderError(HuggingFaceProviderName, domain.FailureNotConfigured, errors.New("HUGGINGFACE_API_KEY is not set"))
	}
	opts := []huggingface.Option{
		huggingface.WithToken(cfg.APIKey),
		huggingface.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, huggingface.WithURL(cfg.BaseURL))
	}
	llm, err := huggingface.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo HuggingFace client: %w", err)
	}
	return &LangChainBackend{
		name: HuggingFaceProviderName,
		llm:  llm,
		opts: []llms.CallOption{
			llms.WithTemperature(0.7),
			llms.WithMaxLength(2000),
		},
	}, nil
}

func (b *LangChainBackend) Name() string          { return b.name }
func (b *LangChainBackend) Format() parser.Format { return parser.FormatText }

func (b *LangChainBackend) Complete(ctx context.Context, prompt string) (string, error) {
	reply, err := b.llm.Call(ctx, prompt, b.opts...)
	if err != nil {
		return "", classifyError(b.name, err)
	}
	return reply, nil
}
