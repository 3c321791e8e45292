package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"quiz-gen/internal/domain"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	summarySheet   = "Quiz"
	questionsSheet = "Questions"
	// XLSXContentType is the media type of exported workbooks.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var questionHeaders = []string{
	"#", "Question Type", "Question", "Option A", "Option B", "Option C", "Option D",
	"Correct Answer", "Difficulty", "Explanation",
}

// ExportService renders quizzes as downloadable workbooks
type ExportService interface {
	// ExportQuiz returns the xlsx bytes and a suggested filename.
	ExportQuiz(ctx context.Context, quizID string) ([]byte, string, error)
}

type exportService struct {
	repo   domain.QuizRepository
	logger *zap.Logger
}

func NewExportService(repo domain.QuizRepository, logger *zap.Logger) ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportQuiz(ctx context.Context, quizID string) ([]byte, string, error) {
	quiz, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, "", err
	}

	data, err := renderWorkbook(quiz)
	if err != nil {
		return nil, "", domain.NewInternalError("Failed to export quiz", err)
	}
	s.logger.Info("Quiz exported",
		zap.String("quiz_id", quiz.ID),
		zap.Int("question_count", len(quiz.Questions)),
		zap.Int("bytes", len(data)),
	)
	return data, exportFilename(quiz.Title), nil
}

func renderWorkbook(quiz *domain.Quiz) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Title", quiz.Title},
		{"Description", quiz.Description},
		{"Source File", quiz.SourceFileID},
		{"Questions", len(quiz.Questions)},
		{"Created At", quiz.CreatedAt.Format(time.RFC3339)},
	}
	if quiz.UpdatedAt != nil {
		summary = append(summary, []interface{}{"Updated At", quiz.UpdatedAt.Format(time.RFC3339)})
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	index, err := f.NewSheet(questionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SetSheetRow(questionsSheet, "A1", &questionHeaders); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(questionHeaders), 1)
	if err := f.SetCellStyle(questionsSheet, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("failed to style headers: %w", err)
	}

	for i, q := range quiz.Questions {
		row := questionRow(i+1, q)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(questionsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write question %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func questionRow(n int, q domain.Question) []interface{} {
	options := make([]string, domain.MultipleChoiceOptionCount)
	copy(options, q.Options)
	return []interface{}{
		n,
		string(q.QuestionType),
		q.Question,
		options[0], options[1], options[2], options[3],
		q.CorrectAnswer,
		q.Difficulty,
		q.Explanation,
	}
}

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func exportFilename(title string) string {
	name := strings.Trim(unsafeFilenameRe.ReplaceAllString(title, "_"), "_.")
	if name == "" {
		name = "quiz"
	}
	return name + ".xlsx"
}
