package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var generationTime = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type fakeTextSource struct {
	calls int
	text  string
	err   error
}

func (f *fakeTextSource) ExtractText(ctx context.Context, fileID string) (*domain.ExtractedText, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ExtractedText{FileID: fileID, Text: f.text, WordCount: 42, ExtractionTime: 0.25}, nil
}

type generationFixture struct {
	svc       *generationService
	store     *repository.MemoryStore
	generator *MockQuestionGenerator
	texts     *fakeTextSource
	publisher *recordingPublisher
}

func newGenerationFixture(t *testing.T) *generationFixture {
	t.Helper()
	f := &generationFixture{
		store:     repository.NewMemoryStore(),
		generator: &MockQuestionGenerator{name: "gemini"},
		texts:     &fakeTextSource{text: "Photosynthesis converts light into chemical energy."},
		publisher: &recordingPublisher{},
	}
	f.svc = NewGenerationService(
		f.store, f.store, f.texts, f.generator,
		[]domain.QuestionGenerator{f.generator},
		f.publisher, zap.NewNop(),
	).(*generationService)
	f.svc.now = func() time.Time { return generationTime }
	return f
}

func (f *generationFixture) addFile(t *testing.T, id, filename string) {
	t.Helper()
	require.NoError(t, f.store.StoreFile(context.Background(), &domain.UploadedFile{
		ID:         id,
		Filename:   filename,
		FileType:   domain.FileTypeTXT,
		FileSize:   5,
		Content:    []byte("hello"),
		UploadTime: generationTime,
	}))
}

func TestGenerateFromFile_FileNotFound(t *testing.T) {
	f := newGenerationFixture(t)

	quiz, err := f.svc.GenerateFromFile(context.Background(), domain.GenerationRequest{FileID: "missing", NumQuestions: 3})

	require.Error(t, err)
	assert.Nil(t, quiz)
	assert.True(t, domain.HasCode(err, domain.CodeGeneration))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	var de *domain.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "File not found", de.Message)

	quizzes, err := f.store.ListQuizzes(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, quizzes)
	f.generator.AssertNotCalled(t, "GenerateQuestions", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.texts.calls)
}

func TestGenerateFromFile_ExtractsAndPersists(t *testing.T) {
	f := newGenerationFixture(t)
	f.addFile(t, "file-1", "notes.txt")

	req := domain.GenerationRequest{FileID: "file-1", NumQuestions: 3}
	f.generator.On("GenerateQuestions", mock.Anything, f.texts.text, req.Params()).Return(sampleQuestions(7), nil).Once()

	quiz, err := f.svc.GenerateFromFile(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, f.texts.calls)
	assert.Len(t, quiz.Questions, 3)
	assert.Equal(t, "Quiz from notes.txt", quiz.Title)
	assert.Equal(t, "Generated quiz with 3 questions", quiz.Description)
	assert.Equal(t, "file-1", quiz.SourceFileID)
	assert.Equal(t, generationTime, quiz.CreatedAt)
	assert.Nil(t, quiz.UpdatedAt)
	assert.NotEmpty(t, quiz.ID)

	assert.Equal(t, "gemini", quiz.Metadata["provider"])
	assert.Equal(t, 42, quiz.Metadata["source_word_count"])
	assert.Equal(t, 0.25, quiz.Metadata["extraction_time"])
	assert.Equal(t, domain.GenerationRequest{
		FileID:          "file-1",
		NumQuestions:    3,
		QuestionTypes:   []domain.QuestionType{domain.QuestionTypeMultipleChoice},
		DifficultyLevel: "medium",
		Language:        "english",
	}, quiz.Metadata["generation_request"])

	stored, err := f.store.GetQuiz(context.Background(), quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.Questions, stored.Questions)

	topics, events := f.publisher.published()
	assert.Equal(t, []string{domain.TopicQuizGenerated}, topics)
	assert.Equal(t, domain.QuizGeneratedEvent{
		QuizID:        quiz.ID,
		SourceFileID:  "file-1",
		QuestionCount: 3,
		Provider:      "gemini",
	}, events[0])
	f.generator.AssertExpectations(t)
}

func TestGenerateFromFile_UsesStoredText(t *testing.T) {
	f := newGenerationFixture(t)
	f.addFile(t, "file-1", "notes.txt")
	require.NoError(t, f.store.StoreExtractedText(context.Background(), &domain.ExtractedText{
		FileID:    "file-1",
		Text:      "Stored text about mitochondria.",
		WordCount: 4,
	}))

	f.generator.On("GenerateQuestions", mock.Anything, "Stored text about mitochondria.", mock.Anything).
		Return(sampleQuestions(5), nil).Once()

	quiz, err := f.svc.GenerateFromFile(context.Background(), domain.GenerationRequest{FileID: "file-1"})
	require.NoError(t, err)

	assert.Equal(t, 0, f.texts.calls)
	assert.Len(t, quiz.Questions, 5)
	assert.Equal(t, 4, quiz.Metadata["source_word_count"])
	f.generator.AssertExpectations(t)
}

func TestGenerateFromFile_ExtractionFailure(t *testing.T) {
	f := newGenerationFixture(t)
	f.addFile(t, "file-1", "scan.pdf")
	f.texts.err = domain.NewParsingError("PDF appears to contain images or scanned content", nil)

	_, err := f.svc.GenerateFromFile(context.Background(), domain.GenerationRequest{FileID: "file-1"})

	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeGeneration))
	assert.True(t, domain.HasCode(err, domain.CodeParsing))
	f.generator.AssertNotCalled(t, "GenerateQuestions", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateFromFile_MetadataOnlyText(t *testing.T) {
	f := newGenerationFixture(t)
	f.addFile(t, "file-1", "broken.pdf")
	f.texts.text = "/Type /Catalog\n%PDF-1.7\n\n   /Pages 2 0 R"

	_, err := f.svc.GenerateFromFile(context.Background(), domain.GenerationRequest{FileID: "file-1"})

	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeGeneration))
	assert.Contains(t, err.Error(), "No readable content")
	f.generator.AssertNotCalled(t, "GenerateQuestions", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateFromFile_ProviderFailure(t *testing.T) {
	f := newGenerationFixture(t)
	f.addFile(t, "file-1", "notes.txt")

	providerErr := domain.NewProviderError("gemini", domain.FailureRetriesExhausted, errors.New("503"))
	f.generator.On("GenerateQuestions", mock.Anything, mock.Anything, mock.Anything).Return(nil, providerErr).Once()

	_, err := f.svc.GenerateFromFile(context.Background(), domain.GenerationRequest{FileID: "file-1"})

	require.Error(t, err)
	var de *domain.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.CodeGeneration, de.Code)
	assert.Equal(t, "gemini", de.Context["provider"])
	assert.Equal(t, "retries_exhausted", de.Context["failure"])

	var pe *domain.ProviderError
	assert.True(t, errors.As(err, &pe))

	quizzes, _ := f.store.ListQuizzes(context.Background(), "")
	assert.Empty(t, quizzes)
	topics, _ := f.publisher.published()
	assert.Empty(t, topics)
}

func TestGenerateFromFile_NoQuestions(t *testing.T) {
	f := newGenerationFixture(t)
	f.addFile(t, "file-1", "notes.txt")
	f.generator.On("GenerateQuestions", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Question{}, nil).Once()

	_, err := f.svc.GenerateFromFile(context.Background(), domain.GenerationRequest{FileID: "file-1"})

	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeGeneration))
	assert.Contains(t, err.Error(), "No questions were generated")
}

func TestGenerateFromText(t *testing.T) {
	t.Run("not persisted by default", func(t *testing.T) {
		f := newGenerationFixture(t)
		f.generator.On("GenerateQuestions", mock.Anything, "The mitochondria is the powerhouse of the cell.", mock.Anything).
			Return(sampleQuestions(2), nil).Once()

		quiz, err := f.svc.GenerateFromText(context.Background(), DirectGeneration{
			Text:    "  The mitochondria   is the powerhouse of the cell.  ",
			Request: domain.GenerationRequest{NumQuestions: 2},
		})
		require.NoError(t, err)

		assert.Equal(t, DirectSourceID, quiz.SourceFileID)
		assert.Equal(t, "Quiz - 2 Questions", quiz.Title)
		assert.Equal(t, 8, quiz.Metadata["source_word_count"])

		quizzes, _ := f.store.ListQuizzes(context.Background(), "")
		assert.Empty(t, quizzes)
		topics, _ := f.publisher.published()
		assert.Empty(t, topics)
	})

	t.Run("persisted on request", func(t *testing.T) {
		f := newGenerationFixture(t)
		f.generator.On("GenerateQuestions", mock.Anything, mock.Anything, mock.Anything).Return(sampleQuestions(1), nil).Once()

		quiz, err := f.svc.GenerateFromText(context.Background(), DirectGeneration{
			Text:     "Water boils at 100 degrees Celsius at sea level.",
			Request:  domain.GenerationRequest{NumQuestions: 1},
			Provider: "gemini",
			Persist:  true,
		})
		require.NoError(t, err)

		stored, err := f.store.ListQuizzes(context.Background(), DirectSourceID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, quiz.ID, stored[0].ID)
		topics, _ := f.publisher.published()
		assert.Equal(t, []string{domain.TopicQuizGenerated}, topics)
	})

	t.Run("unknown provider", func(t *testing.T) {
		f := newGenerationFixture(t)

		_, err := f.svc.GenerateFromText(context.Background(), DirectGeneration{
			Text:     "Some text",
			Provider: "anthropic",
		})
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	})

	t.Run("empty text", func(t *testing.T) {
		f := newGenerationFixture(t)

		_, err := f.svc.GenerateFromText(context.Background(), DirectGeneration{Text: " \n\t "})
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	})
}

func TestReadableContent(t *testing.T) {
	in := "/Type /Page\n%PDF-1.4\nCells divide by mitosis.\n\n   /Font /F1\nDNA carries genetic information."
	assert.Equal(t, "Cells divide by mitosis.\nDNA carries genetic information.", readableContent(in))
	assert.Equal(t, "", readableContent("/a\n%b\n\n"))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.GenerationStatus
		want     bool
	}{
		{domain.StatusPending, domain.StatusExtracting, true},
		{domain.StatusPending, domain.StatusGenerating, true},
		{domain.StatusExtracting, domain.StatusGenerating, true},
		{domain.StatusGenerating, domain.StatusCompleted, true},
		{domain.StatusExtracting, domain.StatusFailed, true},
		{domain.StatusPending, domain.StatusCompleted, false},
		{domain.StatusCompleted, domain.StatusFailed, false},
		{domain.StatusFailed, domain.StatusGenerating, false},
		{domain.StatusGenerating, domain.StatusExtracting, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, canTransition(tt.from, tt.to))
		})
	}
}

func TestGenerationRun_TerminalStates(t *testing.T) {
	run := newGenerationRun("gen-1", "file-1", zap.NewNop())
	run.transition(domain.StatusGenerating)
	run.transition(domain.StatusCompleted)
	assert.Equal(t, domain.StatusCompleted, run.status)

	run.transition(domain.StatusFailed)
	assert.Equal(t, domain.StatusCompleted, run.status)
}
