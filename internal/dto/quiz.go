package dto

import (
	"strings"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/util"
)

// GenerateQuizRequest asks for a quiz generated from an uploaded file.
// NumQuestions is a pointer so an explicit 0 is rejected rather than defaulted.
// @Description Quiz generation parameters; omitted fields take their defaults
type GenerateQuizRequest struct {
	FileID          string   `json:"file_id" validate:"required"`
	NumQuestions    *int     `json:"num_questions" validate:"omitempty,min=1,max=50" example:"5"`
	QuestionTypes   []string `json:"question_types" validate:"omitempty,dive,question_type" example:"multiple_choice,true_false"`
	DifficultyLevel string   `json:"difficulty_level" validate:"omitempty,max=32" example:"medium"`
	FocusTopics     []string `json:"focus_topics,omitempty" validate:"omitempty,max=10,dive,required,max=100"`
	Language        string   `json:"language" validate:"omitempty,max=32" example:"english"`
}

// ToDomain converts the request; defaults are applied later by GenerationRequest.Params.
func (r GenerateQuizRequest) ToDomain() domain.GenerationRequest {
	return domain.GenerationRequest{
		FileID:          r.FileID,
		NumQuestions:    intValue(r.NumQuestions),
		QuestionTypes:   questionTypes(r.QuestionTypes),
		DifficultyLevel: strings.TrimSpace(r.DifficultyLevel),
		FocusTopics:     r.FocusTopics,
		Language:        strings.TrimSpace(r.Language),
	}
}

// DirectQuizRequest asks for a quiz generated from text in the request body
type DirectQuizRequest struct {
	TextContent     string   `json:"text_content" validate:"required,max=500000"`
	NumQuestions    *int     `json:"num_questions" validate:"omitempty,min=1,max=50" example:"5"`
	QuestionTypes   []string `json:"question_types" validate:"omitempty,dive,question_type"`
	DifficultyLevel string   `json:"difficulty_level" validate:"omitempty,max=32"`
	FocusTopics     []string `json:"focus_topics,omitempty" validate:"omitempty,max=10,dive,required,max=100"`
	Language        string   `json:"language" validate:"omitempty,max=32"`
	// AIService is "auto" or the name of one configured provider.
	AIService string `json:"ai_service" validate:"omitempty,max=32" example:"auto"`
	// Persist stores the generated quiz.
	Persist bool `json:"persist"`
}

func (r DirectQuizRequest) ToDomain() domain.GenerationRequest {
	return GenerateQuizRequest{
		NumQuestions:    r.NumQuestions,
		QuestionTypes:   r.QuestionTypes,
		DifficultyLevel: r.DifficultyLevel,
		FocusTopics:     r.FocusTopics,
		Language:        r.Language,
	}.ToDomain()
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func questionTypes(in []string) []domain.QuestionType {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.QuestionType, len(in))
	for i, t := range in {
		out[i] = domain.QuestionType(strings.ToLower(strings.TrimSpace(t)))
	}
	return out
}

// QuestionRequest is an editable question
type QuestionRequest struct {
	ID            string   `json:"id"`
	Question      string   `json:"question" validate:"required"`
	QuestionType  string   `json:"question_type" validate:"required,question_type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,max=32"`
}

// ToDomain fills a missing id and difficulty. Options are dropped for
// question types that do not carry them.
func (r QuestionRequest) ToDomain() domain.Question {
	q := domain.Question{
		ID:            r.ID,
		Question:      strings.TrimSpace(r.Question),
		QuestionType:  domain.QuestionType(strings.ToLower(strings.TrimSpace(r.QuestionType))),
		CorrectAnswer: strings.TrimSpace(r.CorrectAnswer),
		Explanation:   r.Explanation,
		Difficulty:    r.Difficulty,
	}
	if q.ID == "" {
		q.ID = util.NewULID()
	}
	if q.Difficulty == "" {
		q.Difficulty = domain.DefaultDifficulty
	}
	if q.QuestionType == domain.QuestionTypeMultipleChoice {
		q.Options = append([]string{}, r.Options...)
	}
	return q
}

// UpdateQuizRequest is a partial update; absent fields are left unchanged
type UpdateQuizRequest struct {
	Title       *string           `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string           `json:"description" validate:"omitempty,max=2000"`
	Questions   []QuestionRequest `json:"questions" validate:"omitempty,dive"`
}

func (r UpdateQuizRequest) ToDomain() domain.QuizUpdate {
	update := domain.QuizUpdate{Title: r.Title, Description: r.Description}
	if r.Questions != nil {
		questions := make([]domain.Question, len(r.Questions))
		for i, q := range r.Questions {
			questions[i] = q.ToDomain()
		}
		update.Questions = &questions
	}
	return update
}

// QuestionResponse is a question as returned by the API
type QuestionResponse struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
	Difficulty    string   `json:"difficulty"`
}

// QuizResponse is a quiz as returned by the API
// @Description Generated quiz with its questions
type QuizResponse struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	SourceFileID string                 `json:"source_file_id"`
	Questions    []QuestionResponse     `json:"questions"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at,omitempty"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// QuizGenerationResponse wraps a freshly generated quiz
type QuizGenerationResponse struct {
	QuizID  string        `json:"quiz_id"`
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Quiz    *QuizResponse `json:"quiz,omitempty"`
}

// DirectQuizResponse wraps a quiz generated from request text
type DirectQuizResponse struct {
	Quiz QuizResponse `json:"quiz"`
}

func NewQuizResponse(q *domain.Quiz) QuizResponse {
	questions := make([]QuestionResponse, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionResponse{
			ID:            question.ID,
			Question:      question.Question,
			QuestionType:  string(question.QuestionType),
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
			Explanation:   question.Explanation,
			Difficulty:    question.Difficulty,
		}
	}
	metadata := q.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return QuizResponse{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		SourceFileID: q.SourceFileID,
		Questions:    questions,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
		Metadata:     metadata,
	}
}

func NewQuizResponseList(quizzes []*domain.Quiz) []QuizResponse {
	out := make([]QuizResponse, len(quizzes))
	for i, q := range quizzes {
		out[i] = NewQuizResponse(q)
	}
	return out
}

func NewQuizGenerationResponse(q *domain.Quiz) QuizGenerationResponse {
	resp := NewQuizResponse(q)
	return QuizGenerationResponse{
		QuizID:  q.ID,
		Status:  string(domain.StatusCompleted),
		Message: "Quiz generated successfully",
		Quiz:    &resp,
	}
}
