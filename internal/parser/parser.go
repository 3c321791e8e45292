// Package parser turns raw LLM replies into normalized quiz questions.
//
// Parsing is best effort: Parse never fails, it returns whatever questions
// could be recovered together with the issues found along the way.
package parser

import (
	"fmt"
	"strings"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/util"
)

// Format identifies which path produced the questions.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Issue is a recoverable problem found while parsing.
type Issue struct {
	// Block is the 1-based question block or JSON item index; 0 for whole-reply issues.
	Block   int    `json:"block"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("block %d: %s: %s", i.Block, i.Field, i.Message)
	}
	return fmt.Sprintf("block %d: %s", i.Block, i.Message)
}

// Result holds the recovered questions and the issues collected.
type Result struct {
	Questions []domain.Question
	Issues    []Issue
	Format    Format
}

// Parser is safe for concurrent use.
type Parser struct {
	newID func() string
}

// New creates a Parser that assigns ULIDs to questions.
func New() *Parser {
	return &Parser{newID: util.NewULID}
}

// Parse recovers questions from a reply in either the JSON or the delimited
// text format. Questions carry an empty Difficulty when the reply gives none.
func (p *Parser) Parse(raw string) Result {
	var res Result

	if strings.Contains(raw, "{") {
		questions, issues, err := p.parseJSON(raw)
		res.Issues = append(res.Issues, issues...)
		if err == nil {
			res.Questions = questions
			res.Format = FormatJSON
			return res
		}
		res.Issues = append(res.Issues, Issue{Message: "JSON reply rejected, falling back to text format: " + err.Error()})
	}

	questions, issues := p.parseText(raw)
	res.Questions = questions
	res.Issues = append(res.Issues, issues...)
	res.Format = FormatText
	return res
}

var optionLetters = [domain.MultipleChoiceOptionCount]string{"A", "B", "C", "D"}

// PlaceholderOptions returns the generic option set used when a reply
// does not supply four usable options.
func PlaceholderOptions() []string {
	opts := make([]string, len(optionLetters))
	for i, l := range optionLetters {
		opts[i] = "Option " + l
	}
	return opts
}

// normalizeOptions enforces exactly four options for multiple choice.
func normalizeOptions(opts []string) ([]string, bool) {
	cleaned := make([]string, 0, len(opts))
	for _, o := range opts {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) < domain.MultipleChoiceOptionCount {
		return PlaceholderOptions(), false
	}
	return cleaned[:domain.MultipleChoiceOptionCount], true
}

// answerLetter maps an answer to an option letter by position, matching
// case-insensitively on the option text.
func answerLetter(answer string, options []string) (string, bool) {
	a := strings.TrimSpace(answer)
	for i, o := range options {
		if i >= len(optionLetters) {
			break
		}
		if strings.EqualFold(a, strings.TrimSpace(o)) {
			return optionLetters[i], true
		}
	}
	return "", false
}
