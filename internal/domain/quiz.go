package domain

import (
	"fmt"
	"strings"
	"time"
)

// QuestionType is the canonical question kind.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeShortAnswer:
		return true
	}
	return false
}

const DefaultDifficulty = "medium"

// MultipleChoiceOptionCount is the number of options every multiple-choice question carries.
const MultipleChoiceOptionCount = 4

// Question represents a single generated quiz question
type Question struct {
	ID            string       `json:"id"`
	Question      string       `json:"question"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
	Difficulty    string       `json:"difficulty"`
}

// Validate checks the options invariant: multiple-choice carries exactly four
// options, every other type carries none.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewInvalidInputError("question text is required")
	}
	if !q.QuestionType.Valid() {
		return NewInvalidInputError(fmt.Sprintf("unknown question type: %s", q.QuestionType))
	}
	if q.QuestionType == QuestionTypeMultipleChoice {
		if len(q.Options) != MultipleChoiceOptionCount {
			return NewInvalidInputError(fmt.Sprintf("multiple choice question must have %d options", MultipleChoiceOptionCount))
		}
	} else if q.Options != nil {
		return NewInvalidInputError(fmt.Sprintf("%s question must not have options", q.QuestionType))
	}
	return nil
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	return q
}

// Quiz represents a generated quiz in the domain
type Quiz struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	SourceFileID string                 `json:"source_file_id"`
	Questions    []Question             `json:"questions"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at,omitempty"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// Clone returns a deep copy so stored records are never shared with callers.
func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	c := *q
	if q.Questions != nil {
		c.Questions = make([]Question, len(q.Questions))
		for i, question := range q.Questions {
			c.Questions[i] = question.Clone()
		}
	}
	if q.UpdatedAt != nil {
		t := *q.UpdatedAt
		c.UpdatedAt = &t
	}
	if q.Metadata != nil {
		c.Metadata = make(map[string]interface{}, len(q.Metadata))
		for k, v := range q.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// QuizUpdate is a partial update; nil fields are left untouched.
type QuizUpdate struct {
	Title       *string
	Description *string
	Questions   *[]Question
}

// Empty reports whether the update carries no fields.
func (u QuizUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Questions == nil
}

// Apply merges the update into q and stamps UpdatedAt. Replacement questions
// must satisfy the options invariant; q is left unchanged on error.
func (u QuizUpdate) Apply(q *Quiz, now time.Time) error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return NewInvalidInputError("title must not be empty")
	}
	if u.Questions != nil {
		for i := range *u.Questions {
			if err := (*u.Questions)[i].Validate(); err != nil {
				return NewInvalidInputError(fmt.Sprintf("question %d: %s", i+1, err.Error()))
			}
		}
	}

	if u.Title != nil {
		q.Title = *u.Title
	}
	if u.Description != nil {
		q.Description = *u.Description
	}
	if u.Questions != nil {
		questions := make([]Question, len(*u.Questions))
		for i, question := range *u.Questions {
			questions[i] = question.Clone()
		}
		q.Questions = questions
	}
	q.UpdatedAt = &now
	return nil
}
