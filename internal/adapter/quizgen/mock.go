package quizgen

import (
	"context"
	"fmt"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/util"
)

const (
	MockProviderName = "mock"
	mockPreviewRunes = 200
)

var mockOptions = []string{
	"The primary subject matter",
	"A secondary topic",
	"An unrelated concept",
	"Background information",
}

// MockGenerator synthesizes deterministic placeholder questions without any
// network access.
type MockGenerator struct{}

var _ domain.QuestionGenerator = MockGenerator{}

func NewMockGenerator() MockGenerator {
	return MockGenerator{}
}

func (MockGenerator) Name() string {
	return MockProviderName
}

// GenerateQuestions returns exactly params.Count questions, cycling through params.Types.
func (MockGenerator) GenerateQuestions(ctx context.Context, text string, params domain.GenerationParams) ([]domain.Question, error) {
	types := params.Types
	if len(types) == 0 {
		types = []domain.QuestionType{domain.QuestionTypeMultipleChoice}
	}
	difficulty := params.Difficulty
	if difficulty == "" {
		difficulty = domain.DefaultDifficulty
	}
	preview := previewText(text)

	questions := make([]domain.Question, 0, max(params.Count, 0))
	for i := 0; i < params.Count; i++ {
		q := domain.Question{
			ID:           util.NewULID(),
			QuestionType: types[i%len(types)],
			Difficulty:   difficulty,
		}
		switch q.QuestionType {
		case domain.QuestionTypeMultipleChoice:
			q.Question = fmt.Sprintf("What is the main topic discussed in the following text: '%s'?", preview)
			q.Options = append([]string(nil), mockOptions...)
			q.CorrectAnswer = "A"
			q.Explanation = "This question tests comprehension of the main theme."
		case domain.QuestionTypeTrueFalse:
			q.Question = "The text discusses relevant information about the subject matter."
			q.CorrectAnswer = "True"
			q.Explanation = "Based on the provided content, this statement is accurate."
		default:
			q.QuestionType = domain.QuestionTypeShortAnswer
			q.Question = "Describe the key concepts presented in the study material."
			q.CorrectAnswer = "The material covers important concepts that require understanding and analysis."
			q.Explanation = "This question assesses comprehension and analytical thinking."
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (MockGenerator) HealthCheck(context.Context) error {
	return nil
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) > mockPreviewRunes {
		return string(runes[:mockPreviewRunes]) + "..."
	}
	return text
}
