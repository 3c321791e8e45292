package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExportService_ExportQuiz(t *testing.T) {
	store := repository.NewMemoryStore()
	quiz := &domain.Quiz{
		ID:           "quiz-1",
		Title:        "Quiz from notes.txt",
		Description:  "Generated quiz with 2 questions",
		SourceFileID: "file-1",
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Questions: []domain.Question{
			{
				ID:            "q1",
				Question:      "Which organelle produces ATP?",
				QuestionType:  domain.QuestionTypeMultipleChoice,
				Options:       []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi"},
				CorrectAnswer: "B",
				Explanation:   "Cellular respiration happens there.",
				Difficulty:    "easy",
			},
			{
				ID:            "q2",
				Question:      "Plants perform photosynthesis.",
				QuestionType:  domain.QuestionTypeTrueFalse,
				CorrectAnswer: "True",
				Difficulty:    "medium",
			},
		},
	}
	require.NoError(t, store.StoreQuiz(context.Background(), quiz))

	svc := NewExportService(store, zap.NewNop())
	data, filename, err := svc.ExportQuiz(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, "Quiz_from_notes.txt.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(questionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, questionHeaders, rows[0])
	assert.Equal(t, []string{
		"1", "multiple_choice", "Which organelle produces ATP?",
		"Nucleus", "Mitochondria", "Ribosome", "Golgi",
		"B", "easy", "Cellular respiration happens there.",
	}, rows[1])
	assert.Equal(t, "true_false", rows[2][1])
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "True", rows[2][7])

	title, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Quiz from notes.txt", title)
	created, err := f.GetCellValue(summarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02T03:04:05Z", created)
}

func TestExportService_QuizNotFound(t *testing.T) {
	svc := NewExportService(repository.NewMemoryStore(), zap.NewNop())
	_, _, err := svc.ExportQuiz(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "Copy_of_Biology_101.xlsx", exportFilename("Copy of Biology 101"))
	assert.Equal(t, "quiz.xlsx", exportFilename("   "))
	assert.Equal(t, "a_b.xlsx", exportFilename("a/b"))
}
