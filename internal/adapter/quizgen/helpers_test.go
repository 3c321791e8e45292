package quizgen

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/parser"
)

// fakeBackend records prompts and answers with complete.
type fakeBackend struct {
	name     string
	format   parser.Format
	complete func(call int, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (f *fakeBackend) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeBackend) Format() parser.Format {
	if f.format == "" {
		return parser.FormatText
	}
	return f.format
}

func (f *fakeBackend) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	call := len(f.prompts)
	f.mu.Unlock()
	return f.complete(call, prompt)
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

var requestedCountRe = regexp.MustCompile(`Create exactly (\d+)`)

func requestedCount(prompt string) int {
	m := requestedCountRe.FindStringSubmatch(prompt)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// textReply renders n short answer questions in the delimited text format.
func textReply(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "QUESTION %d:\nType: short_answer\nQuestion: Generated question %d?\nAnswer: Answer %d\n\n", i, i, i)
	}
	return b.String()
}

// echoCount answers every prompt with as many questions as it asked for.
func echoCount(_ int, prompt string) (string, error) {
	return textReply(requestedCount(prompt)), nil
}

// stubGenerator is a domain.QuestionGenerator driven by func fields.
type stubGenerator struct {
	name     string
	generate func(ctx context.Context, text string, params domain.GenerationParams) ([]domain.Question, error)
	health   func(ctx context.Context) error

	mu    sync.Mutex
	calls int
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) GenerateQuestions(ctx context.Context, text string, params domain.GenerationParams) ([]domain.Question, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.generate(ctx, text, params)
}

func (s *stubGenerator) HealthCheck(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health(ctx)
}

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func shortAnswers(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			Question:      fmt.Sprintf("Question %d?", i+1),
			QuestionType:  domain.QuestionTypeShortAnswer,
			CorrectAnswer: "answer",
			Difficulty:    domain.DefaultDifficulty,
		}
	}
	return qs
}
