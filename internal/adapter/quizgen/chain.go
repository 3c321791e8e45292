package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quiz-gen/internal/domain"

	"go.uber.org/zap"
)

// ChainGenerator tries its generators in order and returns the first success.
type ChainGenerator struct {
	generators []domain.QuestionGenerator
	logger     *zap.Logger
}

var _ domain.QuestionGenerator = (*ChainGenerator)(nil)

func NewChainGenerator(logger *zap.Logger, generators ...domain.QuestionGenerator) *ChainGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainGenerator{generators: generators, logger: logger}
}

// Name lists the members in fallback order, e.g. "gemini>groq".
func (c *ChainGenerator) Name() string {
	names := make([]string, len(c.generators))
	for i, g := range c.generators {
		names[i] = g.Name()
	}
	return strings.Join(names, ">")
}

// Providers returns the chain members in fallback order.
func (c *ChainGenerator) Providers() []domain.QuestionGenerator {
	return append([]domain.QuestionGenerator(nil), c.generators...)
}

func (c *ChainGenerator) GenerateQuestions(ctx context.Context, text string, params domain.GenerationParams) ([]domain.Question, error) {
	if len(c.generators) == 0 {
		return nil, domain.NewProviderError("chain", domain.FailureNotConfigured, errors.New("no providers configured"))
	}

	var errs []error
	for i, g := range c.generators {
		questions, err := g.GenerateQuestions(ctx, text, params)
		if err == nil {
			if i > 0 {
				c.logger.Info("Fallback provider succeeded", zap.String("provider", g.Name()), zap.Int("position", i+1))
			}
			return questions, nil
		}
		c.logger.Warn("Provider failed, trying next", zap.String("provider", g.Name()), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", g.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return nil, domain.NewProviderError(c.Name(), domain.FailureRetriesExhausted, errors.Join(errs...))
}

// HealthCheck succeeds when at least one member is healthy.
func (c *ChainGenerator) HealthCheck(ctx context.Context) error {
	var errs []error
	for _, g := range c.generators {
		err := g.HealthCheck(ctx)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", g.Name(), err))
	}
	if len(errs) == 0 {
		return domain.NewProviderError("chain", domain.FailureNotConfigured, errors.New("no providers configured"))
	}
	return errors.Join(errs...)
}
