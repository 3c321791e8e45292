package quizgen

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"quiz-gen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryCache struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	deleted []string
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }

func TestCachedGenerator_HitAndMiss(t *testing.T) {
	next := succeeding("gemini", 2)
	c := newMemoryCache()
	g := NewCachedGenerator(next, c, time.Hour, zap.NewNop())
	p := domain.GenerationParams{Count: 2, Types: []domain.QuestionType{domain.QuestionTypeShortAnswer}, Difficulty: "easy", Language: "english"}

	first, err := g.GenerateQuestions(context.Background(), "source text", p)
	require.NoError(t, err)
	assert.Equal(t, 1, next.callCount())
	require.Len(t, c.data, 1)
	for key, ttl := range c.ttls {
		assert.True(t, strings.HasPrefix(key, "quizgen:llm:gemini:"))
		assert.Equal(t, time.Hour, ttl)
	}

	second, err := g.GenerateQuestions(context.Background(), "source text", p)
	require.NoError(t, err)
	assert.Equal(t, 1, next.callCount(), "second call is served from the cache")
	require.Len(t, second, 2)
	assert.Equal(t, first[0].Question, second[0].Question)
	assert.NotEqual(t, first[0].ID, second[0].ID, "cached questions get fresh ids")
	assert.Nil(t, second[0].Options)

	p.Difficulty = "hard"
	_, err = g.GenerateQuestions(context.Background(), "source text", p)
	require.NoError(t, err)
	assert.Equal(t, 2, next.callCount(), "different parameters use a different key")
}

func TestCachedGenerator_CacheFailuresAreIgnored(t *testing.T) {
	next := succeeding("groq", 1)
	c := newMemoryCache()
	c.getErr = errors.New("redis unavailable")
	c.setErr = errors.New("redis unavailable")
	g := NewCachedGenerator(next, c, time.Hour, zap.NewNop())

	questions, err := g.GenerateQuestions(context.Background(), "text", domain.GenerationParams{Count: 1})
	require.NoError(t, err)
	assert.Len(t, questions, 1)
	assert.Equal(t, 1, next.callCount())
}

func TestCachedGenerator_ErrorsAreNotCached(t *testing.T) {
	down := errors.New("down")
	next := failing("gemini", down)
	c := newMemoryCache()
	g := NewCachedGenerator(next, c, time.Hour, zap.NewNop())

	_, err := g.GenerateQuestions(context.Background(), "text", domain.GenerationParams{Count: 1})
	assert.ErrorIs(t, err, down)
	assert.Empty(t, c.data)
}

func TestCachedGenerator_UndecodableEntry(t *testing.T) {
	next := succeeding("gemini", 1)
	c := newMemoryCache()
	g := NewCachedGenerator(next, c, time.Hour, zap.NewNop()).(*CachedGenerator)
	p := domain.GenerationParams{Count: 1}
	c.data[g.generateKey("text", p)] = "not json"

	questions, err := g.GenerateQuestions(context.Background(), "text", p)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
	assert.Equal(t, 1, next.callCount())
	assert.Equal(t, []string{g.generateKey("text", p)}, c.deleted)
	assert.NotEqual(t, "not json", c.data[g.generateKey("text", p)], "entry is replaced by the fresh generation")
}

func TestCachedGenerator_UndecodableEntryEvictedWhenRegenerationFails(t *testing.T) {
	down := errors.New("down")
	c := newMemoryCache()
	g := NewCachedGenerator(failing("gemini", down), c, time.Hour, zap.NewNop()).(*CachedGenerator)
	p := domain.GenerationParams{Count: 1}
	key := g.generateKey("text", p)
	c.data[key] = "[]"

	_, err := g.GenerateQuestions(context.Background(), "text", p)
	assert.ErrorIs(t, err, down)
	assert.Equal(t, []string{key}, c.deleted)
	assert.NotContains(t, c.data, key)
}

func TestNewCachedGenerator_NilCache(t *testing.T) {
	next := succeeding("gemini", 1)
	assert.Same(t, next, NewCachedGenerator(next, nil, time.Hour, nil))
}
