package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-gen/internal/domain"

	"go.uber.org/zap"
)

const healthCheckTimeout = 15 * time.Second

// ProviderHealth is the result of one provider health check.
type ProviderHealth struct {
	Name    string
	Healthy bool
	Error   string
}

// LLMStatus summarizes the configured question generators.
type LLMStatus struct {
	Provider  string
	MockMode  bool
	Ready     bool
	Providers []ProviderHealth
}

// StatusService reports whether question generation can currently succeed
type StatusService interface {
	LLMStatus(ctx context.Context) *LLMStatus
}

type statusService struct {
	generator domain.QuestionGenerator
	members   []domain.QuestionGenerator
	skipped   map[string]error
	mockMode  bool
	logger    *zap.Logger
}

// NewStatusService reports on generator and its members. skipped lists
// configured providers that could not be built.
func NewStatusService(
	generator domain.QuestionGenerator,
	members []domain.QuestionGenerator,
	skipped map[string]error,
	mockMode bool,
	logger *zap.Logger,
) StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &statusService{
		generator: generator,
		members:   members,
		skipped:   skipped,
		mockMode:  mockMode,
		logger:    logger,
	}
}

// LLMStatus checks all members concurrently.
func (s *statusService) LLMStatus(ctx context.Context) *LLMStatus {
	status := &LLMStatus{MockMode: s.mockMode, Provider: "none"}
	if s.generator != nil {
		status.Provider = s.generator.Name()
	}

	// A failed check is a result, not an error, so every check runs to completion.
	results := make([]ProviderHealth, len(s.members))
	var wg sync.WaitGroup
	for i, member := range s.members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			defer cancel()
			h := ProviderHealth{Name: member.Name(), Healthy: true}
			if err := member.HealthCheck(checkCtx); err != nil {
				h.Healthy = false
				h.Error = err.Error()
				s.logger.Warn("LLM provider health check failed", zap.String("provider", h.Name), zap.Error(err))
			}
			results[i] = h
		}()
	}
	wg.Wait()

	for _, h := range results {
		if h.Healthy {
			status.Ready = true
		}
	}

	names := make([]string, 0, len(s.skipped))
	for name := range s.skipped {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		results = append(results, ProviderHealth{Name: name, Error: s.skipped[name].Error()})
	}
	status.Providers = results
	return status
}
