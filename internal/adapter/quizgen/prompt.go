package quizgen

import (
	"fmt"
	"strings"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/parser"
)

var typeLabels = map[domain.QuestionType]string{
	domain.QuestionTypeMultipleChoice: "multiple choice questions",
	domain.QuestionTypeTrueFalse:      "true/false questions",
	domain.QuestionTypeShortAnswer:    "short answer questions",
}

func describeTypes(types []domain.QuestionType) string {
	labels := make([]string, 0, len(types))
	for _, t := range types {
		if l, ok := typeLabels[t]; ok {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return typeLabels[domain.QuestionTypeMultipleChoice]
	}
	return strings.Join(labels, ", ")
}

func focusLine(topics []string) string {
	if len(topics) == 0 {
		return "Cover the most important concepts of the material."
	}
	return "Focus specifically on these topics: " + strings.Join(topics, ", ") + "."
}

// BuildPrompt renders the generation prompt in the reply format the backend expects.
func BuildPrompt(format parser.Format, text string, params domain.GenerationParams) string {
	if format == parser.FormatJSON {
		return buildJSONPrompt(text, params)
	}
	return buildTextPrompt(text, params)
}

func buildTextPrompt(text string, p domain.GenerationParams) string {
	return fmt.Sprintf(`You are an expert educator creating a quiz based on the following study material.

STUDY MATERIAL:
%s

TASK:
Create exactly %d quiz questions based on this material.
- Question types: %s
- Difficulty: %s
- Language: write questions, answers and explanations in %s, or in the language of the material if it differs
- %s

FORMAT:
Use this exact format for each question:

QUESTION 1:
Type: multiple_choice
Question: What is the main concept discussed in the material?
Options: A) Option 1 B) Option 2 C) Option 3 D) Option 4
Answer: A
Explanation: Brief explanation of why this is correct.

QUESTION 2:
Type: true_false
Question: Statement to evaluate as true or false.
Answer: True
Explanation: Brief explanation.

QUESTION 3:
Type: short_answer
Question: A question answered in a few words.
Answer: The expected answer.
Explanation: Brief explanation.

Continue this pattern for all %d questions.

IMPORTANT:
- Base all questions on the provided material
- Make questions test understanding, not just memorization
- Ensure answers are clearly supported by the text
- Use the exact format shown above`,
		text, p.Count, describeTypes(p.Types), p.Difficulty, p.Language, focusLine(p.FocusTopics), p.Count)
}

func buildJSONPrompt(text string, p domain.GenerationParams) string {
	return fmt.Sprintf(`Create a quiz based on this study material:

STUDY MATERIAL:
%s

Create exactly %d %s with %s difficulty. %s
Write all questions, answers and explanations in %s unless the material is clearly in another language, in which case use that language.

IMPORTANT:
- Create realistic, meaningful answer choices based on the study material, not placeholders
- Return ONLY valid JSON with no additional text
- For multiple choice questions, use "mcq" type and include exactly 4 options
- For true/false questions, use "true_false" type and omit the options array
- For short answer questions, use "fill_blank" type and omit the options array
- Use Bloom's taxonomy levels: remember, understand, apply, analyze, evaluate, create

Return the response in this exact JSON format:

{
  "title": "Quiz about [topic from study material]",
  "difficulty": "%s",
  "questions": [
    {
      "id": 1,
      "type": "mcq",
      "question": "What is the main purpose of the framework discussed?",
      "options": ["First option", "Second option", "Third option", "Fourth option"],
      "answer": "Second option",
      "explanation": "Brief explanation based on the study material.",
      "bloom_level": "understand"
    },
    {
      "id": 2,
      "type": "true_false",
      "question": "The framework supports only single-agent applications.",
      "answer": "false",
      "explanation": "The framework supports multi-agent applications.",
      "bloom_level": "remember"
    }
  ]
}`,
		text, p.Count, describeTypes(p.Types), p.Difficulty, focusLine(p.FocusTopics), p.Language, p.Difficulty)
}
