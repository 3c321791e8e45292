package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"quiz-gen/internal/adapter/quizgen"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/events"
	"quiz-gen/internal/extractor"
	"quiz-gen/internal/handler"
	"quiz-gen/internal/middleware"
	"quiz-gen/internal/repository"
	"quiz-gen/internal/service"
	"quiz-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const studyNotes = `Photosynthesis converts light energy into chemical energy.
Plants use chlorophyll to absorb sunlight.
The process releases oxygen as a by-product.`

// newMockModeApp wires the real services over an in-memory store and the mock generator.
func newMockModeApp(t *testing.T) *fiber.App {
	t.Helper()
	log := zap.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	bus := events.NewBus(log)
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
	})

	store := repository.NewMemoryStore()
	mock := quizgen.NewMockGenerator()
	members := []domain.QuestionGenerator{mock}

	files := service.NewFileService(store, extractor.New(log), bus, 1<<20, log)
	require.NoError(t, bus.Subscribe(ctx, domain.TopicFileUploaded, events.Decode(files.HandleFileUploaded)))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app,
		handler.NewFileHandler(files),
		handler.NewQuizHandler(
			service.NewGenerationService(store, store, files, mock, members, bus, log),
			service.NewQuizService(store, log),
			service.NewExportService(store, log),
		),
		handler.NewStatusHandler(service.NewStatusService(mock, members, nil, true, log)),
		validation.NewValidator(),
	)
	return app
}

func intPtr(n int) *int { return &n }

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return doJSON(t, app, http.MethodPost, path, string(data))
}

func TestEndToEnd_UploadGenerateExport(t *testing.T) {
	app := newMockModeApp(t)

	resp, err := app.Test(multipartUpload(t, "file", "photosynthesis.txt", []byte(studyNotes)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var uploaded dto.UploadResponse
	decode(t, resp, &uploaded)
	require.NotEmpty(t, uploaded.FileID)

	// Extraction runs in the background after the upload event.
	require.Eventually(t, func() bool {
		var info dto.FileInfo
		decode(t, doJSON(t, app, http.MethodGet, "/api/files/"+uploaded.FileID, ""), &info)
		return info.TextExtracted
	}, 2*time.Second, 10*time.Millisecond)

	var text dto.ExtractedTextResponse
	decode(t, doJSON(t, app, http.MethodGet, "/api/files/"+uploaded.FileID+"/text", ""), &text)
	assert.Equal(t, 20, text.WordCount)

	resp = postJSON(t, app, "/api/generate-quiz", dto.GenerateQuizRequest{
		FileID:        uploaded.FileID,
		NumQuestions:  intPtr(3),
		QuestionTypes: []string{"multiple_choice", "true_false"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var generated dto.QuizGenerationResponse
	decode(t, resp, &generated)
	require.NotNil(t, generated.Quiz)
	assert.Equal(t, "Quiz from photosynthesis.txt", generated.Quiz.Title)
	require.Len(t, generated.Quiz.Questions, 3)
	assert.Equal(t, "multiple_choice", generated.Quiz.Questions[0].QuestionType)
	assert.Len(t, generated.Quiz.Questions[0].Options, 4)
	assert.Equal(t, "true_false", generated.Quiz.Questions[1].QuestionType)
	assert.Empty(t, generated.Quiz.Questions[1].Options)
	assert.Equal(t, "mock", generated.Quiz.Metadata["provider"])

	var quizzes []dto.QuizResponse
	decode(t, doJSON(t, app, http.MethodGet, "/api/quizzes?file_id="+uploaded.FileID, ""), &quizzes)
	require.Len(t, quizzes, 1)

	resp = doJSON(t, app, http.MethodGet, "/api/quizzes/"+generated.QuizID+"/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.XLSXContentType, resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")

	// Deleting the file cascades to its quizzes.
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodDelete, "/api/files/"+uploaded.FileID, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, "/api/quizzes/"+generated.QuizID, "").StatusCode)
}

func TestEndToEnd_DirectGeneration(t *testing.T) {
	app := newMockModeApp(t)

	resp := postJSON(t, app, "/api/generate-quiz-direct", dto.DirectQuizRequest{
		TextContent:  studyNotes,
		NumQuestions: intPtr(2),
		AIService:    "mock",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var direct dto.DirectQuizResponse
	decode(t, resp, &direct)
	assert.Equal(t, service.DirectSourceID, direct.Quiz.SourceFileID)
	assert.Len(t, direct.Quiz.Questions, 2)

	var quizzes []dto.QuizResponse
	decode(t, doJSON(t, app, http.MethodGet, "/api/quizzes", ""), &quizzes)
	assert.Empty(t, quizzes, "direct quizzes are not stored unless persist is set")

	resp = postJSON(t, app, "/api/generate-quiz-direct", dto.DirectQuizRequest{
		TextContent: studyNotes,
		AIService:   "gemini",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/api/generate-quiz-direct", dto.DirectQuizRequest{
		TextContent: studyNotes,
		Persist:     true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, doJSON(t, app, http.MethodGet, "/api/quizzes", ""), &quizzes)
	require.Len(t, quizzes, 1)
	assert.Len(t, quizzes[0].Questions, domain.DefaultQuestionCount)
}

func TestEndToEnd_StatusInMockMode(t *testing.T) {
	app := newMockModeApp(t)

	var status dto.LLMStatusResponse
	decode(t, doJSON(t, app, http.MethodGet, "/api/llm-status", ""), &status)
	assert.Equal(t, "mock", status.Mode)
	assert.Equal(t, "ready", status.Status)
	require.Len(t, status.Providers, 1)
	assert.True(t, status.Providers[0].Healthy)
}

func TestEndToEnd_GenerateForUnknownFile(t *testing.T) {
	app := newMockModeApp(t)

	resp := postJSON(t, app, "/api/generate-quiz", dto.GenerateQuizRequest{FileID: "does-not-exist"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body middleware.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "File not found", body.Message)
}
