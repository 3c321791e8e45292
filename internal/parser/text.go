package parser

import (
	"regexp"
	"strings"

	"quiz-gen/internal/domain"
)

var (
	// questionMarkerRe matches "QUESTION:", "QUESTION 3:" and "Question 3:",
	// but not the "Question:" label inside a block.
	questionMarkerRe = regexp.MustCompile(`(?m)^[ \t*#]*(?:QUESTION(?:[ \t]+\d+)?|(?i:question)[ \t]+\d+)[ \t]*:[ \t*]*`)
	labelRe          = regexp.MustCompile(`(?i)^(type|question|options|answer|explanation)\s*:\s*(.*)$`)
	optionMarkerRe   = regexp.MustCompile(`(?:^|\s)\(?([A-D])(?:\)|[.:](?:\s|$))`)
	optionLineRe     = regexp.MustCompile(`^\(?[A-D](?:\)|[.:](?:\s|$))`)
	letterAnswerRe   = regexp.MustCompile(`^\(?([A-D])(?:[).:]|$)`)
)

type textBlock struct {
	fields map[string]string
}

func (p *Parser) parseText(raw string) ([]domain.Question, []Issue) {
	locs := questionMarkerRe.FindAllStringIndex(raw, -1)
	if len(locs) == 0 {
		return nil, []Issue{{Message: "no QUESTION markers found"}}
	}

	var (
		questions []domain.Question
		issues    []Issue
	)
	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := readBlock(raw[loc[1]:end])
		q, blockIssues, ok := p.fromBlock(i+1, block)
		issues = append(issues, blockIssues...)
		if ok {
			questions = append(questions, q)
		}
	}
	return questions, issues
}

// readBlock collects labeled fields. Unlabeled lines continue the current
// field, except option-looking lines which always extend the options.
func readBlock(body string) textBlock {
	b := textBlock{fields: make(map[string]string)}
	current := ""
	for _, line := range strings.Split(body, "\n") {
		line = cleanLine(line)
		if line == "" {
			continue
		}
		if m := labelRe.FindStringSubmatch(line); m != nil {
			current = strings.ToLower(m[1])
			b.append(current, m[2])
			continue
		}
		if optionLineRe.MatchString(line) && current != "answer" && current != "explanation" {
			current = "options"
			b.append(current, line)
			continue
		}
		if current == "" {
			// Text right after the marker is the question itself.
			current = "question"
		}
		b.append(current, line)
	}
	return b
}

func (b textBlock) append(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		if _, ok := b.fields[field]; !ok {
			b.fields[field] = ""
		}
		return
	}
	if prev := b.fields[field]; prev != "" {
		b.fields[field] = prev + " " + value
	} else {
		b.fields[field] = value
	}
}

// cleanLine strips markdown emphasis and list bullets commonly added by models.
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.ReplaceAll(line, "**", "")
	line = strings.TrimSpace(strings.TrimLeft(line, "#*"))
	return strings.TrimPrefix(line, "- ")
}

func (p *Parser) fromBlock(block int, b textBlock) (domain.Question, []Issue, bool) {
	var issues []Issue

	text := b.fields["question"]
	answer := b.fields["answer"]
	if text == "" {
		return domain.Question{}, append(issues, Issue{Block: block, Field: "question", Message: "missing question text"}), false
	}
	if answer == "" {
		return domain.Question{}, append(issues, Issue{Block: block, Field: "answer", Message: "missing answer"}), false
	}

	rawOptions := parseOptions(b.fields["options"])
	typeText, declared := b.fields["type"]
	qType := detectType(typeText, declared, len(rawOptions) > 0)

	q := domain.Question{
		ID:            p.newID(),
		Question:      text,
		QuestionType:  qType,
		CorrectAnswer: answer,
		Explanation:   b.fields["explanation"],
	}

	if qType == domain.QuestionTypeMultipleChoice {
		opts, complete := normalizeOptions(rawOptions)
		if !complete {
			issues = append(issues, Issue{Block: block, Field: "options", Message: "fewer than 4 options, using placeholders"})
		}
		q.Options = opts
		q.CorrectAnswer = normalizeChoiceAnswer(answer, opts)
	}

	return q, issues, true
}

// detectType reads the declared type, defaulting to multiple choice when
// options are present and short answer otherwise.
func detectType(typeText string, declared bool, hasOptions bool) domain.QuestionType {
	t := strings.ToLower(strings.TrimSpace(typeText))
	if !declared || t == "" {
		if hasOptions {
			return domain.QuestionTypeMultipleChoice
		}
		return domain.QuestionTypeShortAnswer
	}
	switch {
	case strings.Contains(t, "multiple") || strings.Contains(t, "choice"):
		return domain.QuestionTypeMultipleChoice
	case strings.Contains(t, "true") || strings.Contains(t, "false"):
		return domain.QuestionTypeTrueFalse
	default:
		return domain.QuestionTypeShortAnswer
	}
}

// parseOptions splits "A) x B) y C) z D) w" into its parts; "A." and "A:"
// markers work too. Markers must appear in order, so a stray "C)" inside an
// option does not split it.
func parseOptions(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	matches := optionMarkerRe.FindAllStringSubmatchIndex(s, -1)

	type marker struct{ start, end int }
	var markers []marker
	want := 0
	for _, m := range matches {
		if want >= len(optionLetters) {
			break
		}
		if s[m[2]:m[3]] == optionLetters[want] {
			markers = append(markers, marker{start: m[0], end: m[1]})
			want++
		}
	}

	opts := make([]string, 0, len(markers))
	for i, mk := range markers {
		end := len(s)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		opts = append(opts, strings.TrimSpace(s[mk.end:end]))
	}
	return opts
}

// normalizeChoiceAnswer reduces "B", "B) Paris" or "Paris" to a letter when possible.
func normalizeChoiceAnswer(answer string, options []string) string {
	a := strings.TrimSpace(answer)
	if letter, ok := answerLetter(a, options); ok {
		return letter
	}
	if m := letterAnswerRe.FindStringSubmatch(a); m != nil {
		return m[1]
	}
	return a
}
