package domain

import "context"

// GenerationStatus tracks a generation request through its lifecycle.
type GenerationStatus string

const (
	StatusPending    GenerationStatus = "pending"
	StatusExtracting GenerationStatus = "extracting"
	StatusGenerating GenerationStatus = "generating"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
)

const (
	MinQuestions         = 1
	MaxQuestions         = 50
	DefaultQuestionCount = 5
	DefaultLanguage      = "english"
)

// GenerationRequest is the transient input of a quiz generation.
type GenerationRequest struct {
	FileID          string         `json:"file_id"`
	NumQuestions    int            `json:"num_questions"`
	QuestionTypes   []QuestionType `json:"question_types"`
	DifficultyLevel string         `json:"difficulty_level"`
	FocusTopics     []string       `json:"focus_topics,omitempty"`
	Language        string         `json:"language"`
}

// Params returns the provider-facing part of the request with defaults filled in.
func (r GenerationRequest) Params() GenerationParams {
	p := GenerationParams{
		Count:       r.NumQuestions,
		Types:       r.QuestionTypes,
		Difficulty:  r.DifficultyLevel,
		FocusTopics: r.FocusTopics,
		Language:    r.Language,
	}
	if p.Count <= 0 {
		p.Count = DefaultQuestionCount
	}
	if len(p.Types) == 0 {
		p.Types = []QuestionType{QuestionTypeMultipleChoice}
	}
	if p.Difficulty == "" {
		p.Difficulty = DefaultDifficulty
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	return p
}

// GenerationParams are the knobs passed to a question generator.
type GenerationParams struct {
	Count       int
	Types       []QuestionType
	Difficulty  string
	FocusTopics []string
	Language    string
}

// QuestionGenerator produces quiz questions from source text.
type QuestionGenerator interface {
	// Name identifies the provider, e.g. "gemini" or "mock".
	Name() string
	// GenerateQuestions returns at most params.Count questions or a *ProviderError.
	GenerateQuestions(ctx context.Context, text string, params GenerationParams) ([]Question, error)
	// HealthCheck performs a minimal call against the provider.
	HealthCheck(ctx context.Context) error
}
