package quizgen

import (
	"context"
	"strings"
	"testing"

	"quiz-gen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerator_CyclesTypes(t *testing.T) {
	g := NewMockGenerator()
	p := domain.GenerationParams{
		Count: 5,
		Types: []domain.QuestionType{domain.QuestionTypeMultipleChoice, domain.QuestionTypeTrueFalse},
	}

	questions, err := g.GenerateQuestions(context.Background(), "Paris is the capital of France.", p)
	require.NoError(t, err)
	require.Len(t, questions, 5)

	want := []domain.QuestionType{
		domain.QuestionTypeMultipleChoice,
		domain.QuestionTypeTrueFalse,
		domain.QuestionTypeMultipleChoice,
		domain.QuestionTypeTrueFalse,
		domain.QuestionTypeMultipleChoice,
	}
	seen := make(map[string]bool)
	for i, q := range questions {
		assert.Equal(t, want[i], q.QuestionType, "question %d", i+1)
		if q.QuestionType == domain.QuestionTypeMultipleChoice {
			assert.Len(t, q.Options, 4)
		} else {
			assert.Nil(t, q.Options)
		}
		assert.NoError(t, q.Validate())
		assert.Equal(t, domain.DefaultDifficulty, q.Difficulty)
		assert.False(t, seen[q.ID], "ids are unique")
		seen[q.ID] = true
	}
	assert.Contains(t, questions[0].Question, "Paris is the capital of France.")
}

func TestMockGenerator_ShortAnswerAndPreview(t *testing.T) {
	g := NewMockGenerator()
	long := strings.Repeat("word ", 100)

	questions, err := g.GenerateQuestions(context.Background(), long, domain.GenerationParams{
		Count:      2,
		Types:      []domain.QuestionType{domain.QuestionTypeShortAnswer, domain.QuestionTypeMultipleChoice},
		Difficulty: "hard",
	})
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, domain.QuestionTypeShortAnswer, questions[0].QuestionType)
	assert.Nil(t, questions[0].Options)
	assert.Equal(t, "hard", questions[0].Difficulty)
	assert.Contains(t, questions[1].Question, "...'?")
	assert.Less(t, len(questions[1].Question), len(long))
}

func TestMockGenerator_DefaultsAndHealth(t *testing.T) {
	g := NewMockGenerator()
	questions, err := g.GenerateQuestions(context.Background(), "x", domain.GenerationParams{Count: 1})
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, domain.QuestionTypeMultipleChoice, questions[0].QuestionType)
	assert.Equal(t, "A", questions[0].CorrectAnswer)

	assert.NoError(t, g.HealthCheck(context.Background()))
	assert.Equal(t, "mock", g.Name())
}
