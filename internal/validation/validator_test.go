package validation

import (
	"strings"
	"testing"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationErrors(t *testing.T, err error) domain.ValidationErrors {
	t.Helper()
	require.Error(t, err)
	verrs, ok := err.(domain.ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	return verrs
}

func intPtr(n int) *int { return &n }

func TestValidator_GenerateQuizRequest(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(dto.GenerateQuizRequest{FileID: "f"}))
	assert.NoError(t, v.Struct(dto.GenerateQuizRequest{
		FileID:        "f",
		NumQuestions:  intPtr(50),
		QuestionTypes: []string{"multiple_choice", "TRUE_FALSE", "short_answer"},
	}))

	tests := []struct {
		name  string
		req   dto.GenerateQuizRequest
		field string
		code  domain.ErrorCode
	}{
		{"missing file id", dto.GenerateQuizRequest{}, "file_id", domain.CodeMissingField},
		{"too many questions", dto.GenerateQuizRequest{FileID: "f", NumQuestions: intPtr(51)}, "num_questions", domain.CodeOutOfRange},
		{"negative questions", dto.GenerateQuizRequest{FileID: "f", NumQuestions: intPtr(-1)}, "num_questions", domain.CodeOutOfRange},
		{"explicit zero questions", dto.GenerateQuizRequest{FileID: "f", NumQuestions: intPtr(0)}, "num_questions", domain.CodeOutOfRange},
		{"unknown type", dto.GenerateQuizRequest{FileID: "f", QuestionTypes: []string{"essay"}}, "question_types[0]", domain.CodeInvalidFormat},
		{"blank focus topic", dto.GenerateQuizRequest{FileID: "f", FocusTopics: []string{""}}, "focus_topics[0]", domain.CodeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verrs := validationErrors(t, v.Struct(tt.req))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Equal(t, tt.code, verrs[0].Code)
		})
	}
}

func TestValidator_UpdateQuizRequest(t *testing.T) {
	v := NewValidator()
	empty := ""

	verrs := validationErrors(t, v.Struct(dto.UpdateQuizRequest{
		Title: &empty,
		Questions: []dto.QuestionRequest{
			{Question: "Q?", QuestionType: "multiple_choice", CorrectAnswer: "A"},
			{QuestionType: "true_false", CorrectAnswer: "A"},
		},
	}))

	fields := make([]string, len(verrs))
	for i, e := range verrs {
		fields[i] = e.Field
	}
	assert.ElementsMatch(t, []string{"title", "questions[1].question"}, fields)
	assert.True(t, strings.Contains(verrs.Error(), "title"))

	assert.NoError(t, v.Struct(dto.UpdateQuizRequest{}))
}

func TestValidator_DirectQuizRequest(t *testing.T) {
	v := NewValidator()

	verrs := validationErrors(t, v.Struct(dto.DirectQuizRequest{}))
	require.Len(t, verrs, 1)
	assert.Equal(t, "text_content", verrs[0].Field)

	assert.NoError(t, v.Struct(dto.DirectQuizRequest{TextContent: "Some study text", AIService: "gemini"}))
}
