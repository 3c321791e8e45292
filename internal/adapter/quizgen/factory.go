package quizgen

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"

	"go.uber.org/zap"
)

// ProviderSet is the generator the orchestrator calls plus the members it
// was built from, for status reporting.
type ProviderSet struct {
	Generator domain.QuestionGenerator
	Members   []domain.QuestionGenerator
	MockMode  bool
	// Skipped holds the providers listed in configuration that could not be built.
	Skipped map[string]error
}

// NewProviderSet builds generators from configuration. In mock mode the set
// holds the mock generator alone; otherwise the listed providers form a
// fallback chain, and mock is included only when listed. Providers that
// cannot be built are skipped and reported in Skipped. cache may be nil.
func NewProviderSet(ctx context.Context, cfg config.LLMConfig, cache domain.Cache, cacheTTL time.Duration, logger *zap.Logger) *ProviderSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	set := &ProviderSet{MockMode: cfg.MockMode, Skipped: make(map[string]error)}

	if cfg.MockMode {
		logger.Info("LLM mock mode enabled, no provider will be called")
		mock := NewMockGenerator()
		set.Members = []domain.QuestionGenerator{mock}
		set.Generator = mock
		return set
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	for _, name := range cfg.Providers {
		gen, err := newProvider(ctx, name, cfg, httpClient, logger)
		if err != nil {
			logger.Warn("Skipping LLM provider", zap.String("provider", name), zap.Error(err))
			set.Skipped[name] = err
			continue
		}
		if name != MockProviderName {
			gen = NewCachedGenerator(gen, cache, cacheTTL, logger)
		}
		set.Members = append(set.Members, gen)
	}

	if len(set.Members) == 0 {
		logger.Error("No LLM provider available; quiz generation will fail until one is configured",
			zap.Strings("configured", cfg.Providers))
	}
	if len(set.Members) == 1 {
		set.Generator = set.Members[0]
	} else {
		set.Generator = NewChainGenerator(logger, set.Members...)
	}
	return set
}

func newProvider(ctx context.Context, name string, cfg config.LLMConfig, httpClient *http.Client, logger *zap.Logger) (domain.QuestionGenerator, error) {
	var (
		backend Backend
		pc      config.ProviderConfig
		err     error
	)
	switch name {
	case MockProviderName:
		return NewMockGenerator(), nil
	case GeminiProviderName:
		pc = cfg.Gemini
		backend, err = NewGeminiBackend(ctx, pc)
	case GroqProviderName:
		pc = cfg.Groq
		backend, err = NewChatBackend(GroqProviderName, pc, httpClient)
	case OpenAIProviderName:
		pc = cfg.OpenAI
		backend, err = NewChatBackend(OpenAIProviderName, pc, httpClient)
	case AnthropicProviderName:
		pc = cfg.Anthropic
		backend, err = NewAnthropicBackend(pc)
	case OllamaProviderName:
		pc = cfg.Ollama
		backend, err = NewOllamaBackend(pc, httpClient)
	case HuggingFaceProviderName:
		pc = cfg.HuggingFace
		backend, err = NewHuggingFaceBackend(pc)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	if err != nil {
		return nil, err
	}

	return NewLLMGenerator(backend, Options{
		ChunkSize:  cfg.ChunkSize,
		MaxRetries: pc.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		Timeout:    cfg.Timeout,
	}, logger), nil
}
