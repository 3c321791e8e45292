package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/parser"

	"go.uber.org/zap"
)

const healthCheckTimeout = 15 * time.Second

// Options tunes an LLMGenerator.
type Options struct {
	// ChunkSize is the maximum characters of source text sent per request.
	ChunkSize int
	// MaxRetries is the number of additional attempts per chunk.
	MaxRetries int
	// BaseDelay is the first backoff delay, doubled on each retry.
	BaseDelay time.Duration
	// Timeout bounds a single vendor call; zero leaves it to the caller's context.
	Timeout time.Duration
}

// LLMGenerator implements domain.QuestionGenerator for any Backend.
type LLMGenerator struct {
	backend Backend
	parser  *parser.Parser
	opts    Options
	logger  *zap.Logger
}

var _ domain.QuestionGenerator = (*LLMGenerator)(nil)

// NewLLMGenerator wraps backend with chunking, retry and reply parsing.
func NewLLMGenerator(backend Backend, opts Options, logger *zap.Logger) *LLMGenerator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMGenerator{
		backend: backend,
		parser:  parser.New(),
		opts:    opts,
		logger:  logger.With(zap.String("provider", backend.Name())),
	}
}

func (g *LLMGenerator) Name() string {
	return g.backend.Name()
}

// GenerateQuestions asks for params.Count questions spread over the text's
// chunks and returns at most params.Count of them.
func (g *LLMGenerator) GenerateQuestions(ctx context.Context, text string, params domain.GenerationParams) ([]domain.Question, error) {
	if params.Count <= 0 {
		return nil, nil
	}

	chunks := splitChunks(text, g.opts.ChunkSize)
	counts := distribute(params.Count, len(chunks))
	if len(chunks) > 1 {
		g.logger.Info("Splitting source text into chunks",
			zap.Int("chunks", len(chunks)),
			zap.Int("chunk_size", g.opts.ChunkSize),
			zap.Int("num_questions", params.Count))
	}

	var questions []domain.Question
	for i, chunk := range chunks {
		if counts[i] == 0 {
			continue
		}
		chunkParams := params
		chunkParams.Count = counts[i]

		qs, err := g.generateChunk(ctx, chunk, chunkParams)
		if err != nil {
			g.logger.Error("Chunk generation failed", zap.Int("chunk", i+1), zap.Error(err))
			return nil, err
		}
		questions = append(questions, qs...)
	}

	if len(questions) > params.Count {
		questions = questions[:params.Count]
	}
	return questions, nil
}

func (g *LLMGenerator) generateChunk(ctx context.Context, chunk string, params domain.GenerationParams) ([]domain.Question, error) {
	prompt := BuildPrompt(g.backend.Format(), chunk, params)

	var lastErr error
	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(g.opts.BaseDelay, attempt-1)
			g.logger.Warn("Retrying provider call",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			if err := sleepContext(ctx, delay); err != nil {
				return nil, domain.NewProviderError(g.Name(), domain.FailureTimeout, err)
			}
		}

		questions, err := g.attempt(ctx, prompt, params)
		if err == nil {
			return questions, nil
		}
		lastErr = err

		var pe *domain.ProviderError
		if errors.As(err, &pe) && !pe.Retryable() {
			return nil, err
		}
	}
	return nil, domain.NewProviderError(g.Name(), domain.FailureRetriesExhausted,
		fmt.Errorf("after %d attempts: %w", g.opts.MaxRetries+1, lastErr))
}

func (g *LLMGenerator) attempt(ctx context.Context, prompt string, params domain.GenerationParams) ([]domain.Question, error) {
	callCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := g.backend.Complete(callCtx, prompt)
	if err != nil {
		return nil, classifyError(g.Name(), err)
	}
	g.logger.Debug("Provider replied",
		zap.Duration("duration", time.Since(start)),
		zap.Int("reply_length", len(reply)))

	if strings.TrimSpace(reply) == "" {
		return nil, domain.NewProviderError(g.Name(), domain.FailureEmptyResponse, errors.New("empty reply"))
	}

	res := g.parser.Parse(reply)
	for _, issue := range res.Issues {
		g.logger.Warn("Reply parse issue", zap.String("format", string(res.Format)), zap.String("issue", issue.String()))
	}
	if len(res.Questions) == 0 {
		return nil, domain.NewProviderError(g.Name(), domain.FailureMalformedResponse,
			fmt.Errorf("no questions recovered from %s reply", res.Format))
	}

	for i := range res.Questions {
		if res.Questions[i].Difficulty == "" {
			res.Questions[i].Difficulty = params.Difficulty
		}
	}
	return res.Questions, nil
}

// HealthCheck sends a minimal prompt and expects a non-empty reply.
func (g *LLMGenerator) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	reply, err := g.backend.Complete(ctx, "Hello")
	if err != nil {
		return classifyError(g.Name(), err)
	}
	if strings.TrimSpace(reply) == "" {
		return domain.NewProviderError(g.Name(), domain.FailureEmptyResponse, errors.New("empty health check reply"))
	}
	return nil
}
