package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/extractor"
	"quiz-gen/internal/util"

	"go.uber.org/zap"
)

// DirectSourceID is the source file id of quizzes generated from caller-supplied text.
const DirectSourceID = "direct"

// AutoProvider selects the configured generator (possibly a fallback chain).
const AutoProvider = "auto"

// TextSource runs (deduplicated) text extraction for a stored file.
type TextSource interface {
	ExtractText(ctx context.Context, fileID string) (*domain.ExtractedText, error)
}

// DirectGeneration is a generation request over caller-supplied text.
type DirectGeneration struct {
	Text    string
	Request domain.GenerationRequest
	// Provider names one configured provider; empty or "auto" uses the default generator.
	Provider string
	// Persist stores the quiz and publishes quiz.generated.
	Persist bool
}

// GenerationService runs the extraction → generation → assembly → persist pipeline
type GenerationService interface {
	GenerateFromFile(ctx context.Context, req domain.GenerationRequest) (*domain.Quiz, error)
	GenerateFromText(ctx context.Context, direct DirectGeneration) (*domain.Quiz, error)
}

type generationService struct {
	files     domain.FileRepository
	quizzes   domain.QuizRepository
	texts     TextSource
	generator domain.QuestionGenerator
	providers map[string]domain.QuestionGenerator
	publisher domain.EventPublisher
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewGenerationService creates the quiz orchestrator. generator is the single
// path every file-based request goes through; providers are the individually
// addressable members for direct generation. publisher may be nil.
func NewGenerationService(
	files domain.FileRepository,
	quizzes domain.QuizRepository,
	texts TextSource,
	generator domain.QuestionGenerator,
	providers []domain.QuestionGenerator,
	publisher domain.EventPublisher,
	logger *zap.Logger,
) GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	byName := make(map[string]domain.QuestionGenerator, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &generationService{
		files:     files,
		quizzes:   quizzes,
		texts:     texts,
		generator: generator,
		providers: byName,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     util.NewUUID,
	}
}

// source is the text a quiz is generated from.
type source struct {
	fileID         string
	title          string
	text           string
	wordCount      int
	extractionTime float64
}

func (s *generationService) GenerateFromFile(ctx context.Context, req domain.GenerationRequest) (*domain.Quiz, error) {
	run := newGenerationRun(s.newID(), req.FileID, s.logger)

	file, err := s.files.GetFile(ctx, req.FileID)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return nil, run.fail(domain.NewGenerationError("File not found", err))
		}
		return nil, run.fail(domain.NewInternalError("Failed to load file", err))
	}

	text, err := s.files.GetExtractedText(ctx, req.FileID)
	switch {
	case err == nil:
		run.logger.Debug("Using cached extracted text")
	case errors.Is(err, domain.ErrTextNotFound):
		run.transition(domain.StatusExtracting)
		text, err = s.texts.ExtractText(ctx, req.FileID)
		if err != nil {
			return nil, run.fail(wrapGenerationError("Text extraction failed", err))
		}
	default:
		return nil, run.fail(domain.NewInternalError("Failed to load extracted text", err))
	}

	src := source{
		fileID:         file.ID,
		title:          "Quiz from " + file.Filename,
		text:           text.Text,
		wordCount:      text.WordCount,
		extractionTime: text.ExtractionTime,
	}
	return s.generate(ctx, run, s.generator, src, req, true)
}

func (s *generationService) GenerateFromText(ctx context.Context, direct DirectGeneration) (*domain.Quiz, error) {
	run := newGenerationRun(s.newID(), DirectSourceID, s.logger)

	generator, err := s.selectGenerator(direct.Provider)
	if err != nil {
		return nil, run.fail(err)
	}

	text := extractor.CleanText(direct.Text)
	if text == "" {
		return nil, run.fail(domain.NewInvalidInputError("text_content must not be empty"))
	}

	req := direct.Request
	req.FileID = DirectSourceID
	src := source{
		fileID:    DirectSourceID,
		title:     fmt.Sprintf("Quiz - %d Questions", req.Params().Count),
		text:      text,
		wordCount: extractor.CountWords(text),
	}
	return s.generate(ctx, run, generator, src, req, direct.Persist)
}

func (s *generationService) selectGenerator(name string) (domain.QuestionGenerator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == AutoProvider {
		return s.generator, nil
	}
	if gen, ok := s.providers[name]; ok {
		return gen, nil
	}
	available := make([]string, 0, len(s.providers))
	for n := range s.providers {
		available = append(available, n)
	}
	sort.Strings(available)
	return nil, domain.NewInvalidInputError(fmt.Sprintf("Unknown AI service: %s", name)).
		WithContext("available", available)
}

func (s *generationService) generate(
	ctx context.Context,
	run *generationRun,
	generator domain.QuestionGenerator,
	src source,
	req domain.GenerationRequest,
	persist bool,
) (*domain.Quiz, error) {
	if generator == nil {
		return nil, run.fail(domain.NewGenerationError("No question generator configured", nil))
	}

	content := readableContent(src.text)
	if content == "" {
		return nil, run.fail(domain.NewGenerationError("No readable content found in document, only metadata was extracted", nil))
	}

	params := req.Params()
	run.transition(domain.StatusGenerating,
		zap.String("provider", generator.Name()),
		zap.Int("num_questions", params.Count),
	)

	questions, err := generator.GenerateQuestions(ctx, content, params)
	if err != nil {
		return nil, run.fail(wrapGenerationError("Quiz generation failed", err))
	}
	if len(questions) > params.Count {
		questions = questions[:params.Count]
	}
	if len(questions) == 0 {
		return nil, run.fail(domain.NewGenerationError("No questions were generated", nil))
	}

	quiz := &domain.Quiz{
		ID:           s.newID(),
		Title:        src.title,
		Description:  fmt.Sprintf("Generated quiz with %d questions", len(questions)),
		SourceFileID: src.fileID,
		Questions:    questions,
		CreatedAt:    s.now(),
		Metadata: map[string]interface{}{
			"generation_request": normalizedRequest(req),
			"source_word_count":  src.wordCount,
			"extraction_time":    src.extractionTime,
			"provider":           generator.Name(),
		},
	}

	if persist {
		if err := s.quizzes.StoreQuiz(ctx, quiz); err != nil {
			return nil, run.fail(domain.NewInternalError("Failed to store quiz", err))
		}
		s.publishGenerated(ctx, quiz, generator.Name())
	}

	run.transition(domain.StatusCompleted,
		zap.String("quiz_id", quiz.ID),
		zap.Int("question_count", len(quiz.Questions)),
		zap.Duration("elapsed", time.Since(run.started)),
	)
	return quiz, nil
}

func (s *generationService) publishGenerated(ctx context.Context, quiz *domain.Quiz, provider string) {
	if s.publisher == nil {
		return
	}
	event := domain.QuizGeneratedEvent{
		QuizID:        quiz.ID,
		SourceFileID:  quiz.SourceFileID,
		QuestionCount: len(quiz.Questions),
		Provider:      provider,
	}
	if err := s.publisher.Publish(ctx, domain.TopicQuizGenerated, event); err != nil {
		s.logger.Warn("Failed to publish quiz generated event", zap.String("quiz_id", quiz.ID), zap.Error(err))
	}
}

// readableContent drops blank lines and lines that look like PDF syntax.
func readableContent(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "%") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// normalizedRequest is the request as it was executed, defaults included.
func normalizedRequest(req domain.GenerationRequest) domain.GenerationRequest {
	p := req.Params()
	req.NumQuestions = p.Count
	req.QuestionTypes = p.Types
	req.DifficultyLevel = p.Difficulty
	req.Language = p.Language
	return req
}

// wrapGenerationError re-wraps parsing and provider failures as GENERATION_ERROR
// while keeping the cause in the chain. Not-found errors pass through unchanged.
func wrapGenerationError(message string, err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Code == domain.CodeNotFound {
		return err
	}
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return domain.NewGenerationError(message, err).
			WithContext("provider", pe.Provider).
			WithContext("failure", string(pe.Kind))
	}
	return domain.NewGenerationError(message, err)
}

// generationRun tracks one request through pending → extracting → generating → completed | failed.
type generationRun struct {
	id      string
	status  domain.GenerationStatus
	started time.Time
	logger  *zap.Logger
}

func newGenerationRun(id, fileID string, logger *zap.Logger) *generationRun {
	run := &generationRun{
		id:      id,
		status:  domain.StatusPending,
		started: time.Now(),
		logger:  logger.With(zap.String("generation_id", id), zap.String("file_id", fileID)),
	}
	run.logger.Info("Quiz generation requested", zap.String("status", string(run.status)))
	return run
}

var allowedTransitions = map[domain.GenerationStatus][]domain.GenerationStatus{
	domain.StatusPending:    {domain.StatusExtracting, domain.StatusGenerating, domain.StatusFailed},
	domain.StatusExtracting: {domain.StatusGenerating, domain.StatusFailed},
	domain.StatusGenerating: {domain.StatusCompleted, domain.StatusFailed},
}

func canTransition(from, to domain.GenerationStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (r *generationRun) transition(to domain.GenerationStatus, fields ...zap.Field) {
	if !canTransition(r.status, to) {
		r.logger.Error("Invalid generation status transition",
			zap.String("from", string(r.status)),
			zap.String("to", string(to)),
		)
		return
	}
	fields = append([]zap.Field{
		zap.String("from", string(r.status)),
		zap.String("to", string(to)),
	}, fields...)
	r.logger.Info("Quiz generation status changed", fields...)
	r.status = to
}

func (r *generationRun) fail(err error) error {
	r.transition(domain.StatusFailed, zap.Error(err))
	return err
}
