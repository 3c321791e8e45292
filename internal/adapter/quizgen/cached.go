package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"quiz-gen/internal/cache"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/util"

	"go.uber.org/zap"
)

// CachedGenerator stores successful generations in a domain.Cache keyed on the
// provider, the source text and the generation parameters. Cache failures
// never fail a generation.
type CachedGenerator struct {
	next   domain.QuestionGenerator
	cache  domain.Cache
	ttl    time.Duration
	logger *zap.Logger
}

var _ domain.QuestionGenerator = (*CachedGenerator)(nil)

// NewCachedGenerator returns next unchanged when c is nil.
func NewCachedGenerator(next domain.QuestionGenerator, c domain.Cache, ttl time.Duration, logger *zap.Logger) domain.QuestionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		logger.Warn("Generation cache disabled: no cache backend", zap.String("provider", next.Name()))
		return next
	}
	return &CachedGenerator{next: next, cache: c, ttl: ttl, logger: logger}
}

func (g *CachedGenerator) Name() string {
	return g.next.Name()
}

func (g *CachedGenerator) generateKey(text string, params domain.GenerationParams) string {
	types := make([]string, len(params.Types))
	for i, t := range params.Types {
		types[i] = string(t)
	}
	hash := cache.HashKey(
		text,
		strconv.Itoa(params.Count),
		strings.Join(types, ","),
		params.Difficulty,
		strings.Join(params.FocusTopics, ","),
		params.Language,
	)
	return cache.GenerateCacheKey("llm", g.next.Name(), hash)
}

func (g *CachedGenerator) GenerateQuestions(ctx context.Context, text string, params domain.GenerationParams) ([]domain.Question, error) {
	key := g.generateKey(text, params)

	cached, err := g.cache.Get(ctx, key)
	switch {
	case err == nil:
		var questions []domain.Question
		if errDecode := json.Unmarshal([]byte(cached), &questions); errDecode == nil && len(questions) > 0 {
			g.logger.Debug("Generation cache hit", zap.String("key", key))
			return withFreshIDs(questions), nil
		}
		g.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
		// Evict now so the entry is gone even if regeneration fails.
		if err := g.cache.Delete(ctx, key); err != nil {
			g.logger.Warn("Generation cache delete failed", zap.String("key", key), zap.Error(err))
		}
	case errors.Is(err, domain.ErrCacheMiss):
		g.logger.Debug("Generation cache miss", zap.String("key", key))
	default:
		g.logger.Warn("Generation cache read failed", zap.String("key", key), zap.Error(err))
	}

	questions, err := g.next.GenerateQuestions(ctx, text, params)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(questions)
	if err != nil {
		g.logger.Warn("Failed to encode questions for caching", zap.Error(err))
		return questions, nil
	}
	if err := g.cache.Set(ctx, key, string(data), g.ttl); err != nil {
		g.logger.Warn("Generation cache write failed", zap.String("key", key), zap.Error(err))
	}
	return questions, nil
}

func (g *CachedGenerator) HealthCheck(ctx context.Context) error {
	return g.next.HealthCheck(ctx)
}

// withFreshIDs gives cached questions new identities so two quizzes never share one.
func withFreshIDs(questions []domain.Question) []domain.Question {
	for i := range questions {
		questions[i].ID = util.NewULID()
	}
	return questions
}
