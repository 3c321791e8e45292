package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/repository"
	"quiz-gen/internal/service"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate a quiz from a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		types, _ := cmd.Flags().GetStringSlice("types")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		topics, _ := cmd.Flags().GetStringSlice("topics")
		language, _ := cmd.Flags().GetString("language")
		provider, _ := cmd.Flags().GetString("provider")
		asJSON, _ := cmd.Flags().GetBool("json")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if count < domain.MinQuestions || count > domain.MaxQuestions {
			return fmt.Errorf("--count must be between %d and %d", domain.MinQuestions, domain.MaxQuestions)
		}
		questionTypes := make([]domain.QuestionType, 0, len(types))
		for _, t := range types {
			qt := domain.QuestionType(strings.ToLower(strings.TrimSpace(t)))
			if !qt.Valid() {
				return fmt.Errorf("unknown question type %q", t)
			}
			questionTypes = append(questionTypes, qt)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		extracted, err := extractFile(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := generationContext(cmd.Context(), timeout)
		defer cancel()

		providers, cleanup := buildProviders(ctx, cfg)
		defer cleanup()

		log := logger.Get()
		store := repository.NewMemoryStore()
		generation := service.NewGenerationService(store, store, nil, providers.Generator, providers.Members, nil, log)

		quiz, err := generation.GenerateFromText(ctx, service.DirectGeneration{
			Text: extracted.Text,
			Request: domain.GenerationRequest{
				NumQuestions:    count,
				QuestionTypes:   questionTypes,
				DifficultyLevel: difficulty,
				FocusTopics:     topics,
				Language:        language,
			},
			Provider: provider,
			Persist:  xlsxPath != "",
		})
		if err != nil {
			return err
		}

		if xlsxPath != "" {
			data, _, err := service.NewExportService(store, log).ExportQuiz(ctx, quiz.ID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", xlsxPath, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", xlsxPath)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(dto.NewQuizResponse(quiz))
		}
		printQuiz(quiz)
		return nil
	},
}

func init() {
	generateCmd.Flags().IntP("count", "n", domain.DefaultQuestionCount, "Number of questions")
	generateCmd.Flags().StringSlice("types", []string{string(domain.QuestionTypeMultipleChoice)}, "Question types: multiple_choice, true_false, short_answer")
	generateCmd.Flags().String("difficulty", domain.DefaultDifficulty, "Difficulty level")
	generateCmd.Flags().StringSlice("topics", nil, "Topics to focus on")
	generateCmd.Flags().String("language", domain.DefaultLanguage, "Language of the questions")
	generateCmd.Flags().String("provider", service.AutoProvider, "Provider to use, or auto for the fallback chain")
	generateCmd.Flags().Bool("json", false, "Print the quiz as JSON")
	generateCmd.Flags().String("xlsx", "", "Also export the quiz to this Excel file")
	generateCmd.Flags().Duration("timeout", 0, "Overall deadline for the run, 0 for none; each provider call is bounded by LLM_TIMEOUT")
}

// generationContext bounds the whole run only when asked to. A run spans every
// chunk, retry and fallback provider, each already bounded by the per-call
// LLM timeout.
func generationContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(parent, timeout)
	}
	return context.WithCancel(parent)
}

func printQuiz(quiz *domain.Quiz) {
	fmt.Printf("%s\n%s\n\n", quiz.Title, strings.Repeat("─", 60))
	for i, q := range quiz.Questions {
		fmt.Printf("%d. [%s, %s] %s\n", i+1, q.QuestionType, q.Difficulty, q.Question)
		for j, opt := range q.Options {
			fmt.Printf("   %c) %s\n", 'A'+j, opt)
		}
		fmt.Printf("   Answer: %s\n", q.CorrectAnswer)
		if q.Explanation != "" {
			fmt.Printf("   Why: %s\n", q.Explanation)
		}
		fmt.Println()
	}
	if p, ok := quiz.Metadata["provider"]; ok {
		fmt.Printf("Generated by %v\n", p)
	}
}
