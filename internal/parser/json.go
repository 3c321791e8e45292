package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"quiz-gen/internal/domain"
)

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

type jsonReply struct {
	Questions []jsonQuestion `json:"questions"`
}

type jsonQuestion struct {
	Type        string      `json:"type"`
	Question    string      `json:"question"`
	Options     []string    `json:"options"`
	Answer      interface{} `json:"answer"`
	Explanation string      `json:"explanation"`
	BloomLevel  string      `json:"bloom_level"`
}

// extractJSONObject returns the outermost {...} span so prose around the
// object is tolerated.
func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object found")
	}
	return trailingCommaRe.ReplaceAllString(raw[start:end+1], "$1"), nil
}

func (p *Parser) parseJSON(raw string) ([]domain.Question, []Issue, error) {
	body, err := extractJSONObject(raw)
	if err != nil {
		return nil, nil, err
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validateReply(doc); err != nil {
		return nil, nil, err
	}

	var reply jsonReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, nil, fmt.Errorf("decode questions: %w", err)
	}

	var (
		questions []domain.Question
		issues    []Issue
	)
	for i, item := range reply.Questions {
		q, itemIssues, ok := p.fromJSON(i+1, item)
		issues = append(issues, itemIssues...)
		if ok {
			questions = append(questions, q)
		}
	}
	return questions, issues, nil
}

func (p *Parser) fromJSON(block int, item jsonQuestion) (domain.Question, []Issue, bool) {
	var issues []Issue

	text := strings.TrimSpace(item.Question)
	answer := strings.TrimSpace(answerString(item.Answer))
	if text == "" {
		return domain.Question{}, append(issues, Issue{Block: block, Field: "question", Message: "missing question text"}), false
	}
	if answer == "" {
		return domain.Question{}, append(issues, Issue{Block: block, Field: "answer", Message: "missing answer"}), false
	}

	q := domain.Question{
		ID:           p.newID(),
		Question:     text,
		QuestionType: mapJSONType(item.Type),
		Explanation:  strings.TrimSpace(item.Explanation),
		Difficulty:   strings.TrimSpace(item.BloomLevel),
	}

	switch q.QuestionType {
	case domain.QuestionTypeMultipleChoice:
		opts, complete := normalizeOptions(item.Options)
		if !complete {
			issues = append(issues, Issue{Block: block, Field: "options", Message: "fewer than 4 options, using placeholders"})
		}
		q.Options = opts
		if letter, ok := answerLetter(answer, opts); ok && complete {
			q.CorrectAnswer = letter
		} else {
			q.CorrectAnswer = "A"
			issues = append(issues, Issue{Block: block, Field: "answer", Message: "answer does not match any option, defaulting to A"})
		}
	case domain.QuestionTypeTrueFalse:
		if strings.EqualFold(answer, "true") {
			q.CorrectAnswer = "A"
		} else {
			q.CorrectAnswer = "B"
		}
	default:
		q.CorrectAnswer = answer
	}

	return q, issues, true
}

// mapJSONType maps provider type tags onto the canonical question types.
func mapJSONType(tag string) domain.QuestionType {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "mcq", "multiple_choice", "multiple choice":
		return domain.QuestionTypeMultipleChoice
	case "true_false", "true/false", "tf":
		return domain.QuestionTypeTrueFalse
	default:
		return domain.QuestionTypeShortAnswer
	}
}

func answerString(v interface{}) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case bool:
		if a {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(a)
	}
}
