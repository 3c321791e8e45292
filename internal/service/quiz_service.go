package service

import (
	"context"

	"quiz-gen/internal/domain"

	"go.uber.org/zap"
)

// QuizService defines read and edit operations on generated quizzes
type QuizService interface {
	ListQuizzes(ctx context.Context, fileID string) ([]*domain.Quiz, error)
	GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quizID string, update domain.QuizUpdate) (*domain.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID string) error
	DuplicateQuiz(ctx context.Context, quizID string) (*domain.Quiz, error)
}

type quizService struct {
	repo   domain.QuizRepository
	logger *zap.Logger
}

// NewQuizService creates a new instance of quizService
func NewQuizService(repo domain.QuizRepository, logger *zap.Logger) QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &quizService{repo: repo, logger: logger}
}

func (s *quizService) ListQuizzes(ctx context.Context, fileID string) ([]*domain.Quiz, error) {
	quizzes, err := s.repo.ListQuizzes(ctx, fileID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to retrieve quizzes", err)
	}
	return quizzes, nil
}

func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	return s.repo.GetQuiz(ctx, quizID)
}

func (s *quizService) UpdateQuiz(ctx context.Context, quizID string, update domain.QuizUpdate) (*domain.Quiz, error) {
	if update.Empty() {
		return nil, domain.NewInvalidInputError("No updates provided")
	}
	quiz, err := s.repo.UpdateQuiz(ctx, quizID, update)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Quiz updated",
		zap.String("quiz_id", quizID),
		zap.Bool("title", update.Title != nil),
		zap.Bool("description", update.Description != nil),
		zap.Bool("questions", update.Questions != nil),
	)
	return quiz, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, quizID string) error {
	if err := s.repo.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	s.logger.Info("Quiz deleted", zap.String("quiz_id", quizID))
	return nil
}

func (s *quizService) DuplicateQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	dup, err := s.repo.DuplicateQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Quiz duplicated", zap.String("quiz_id", quizID), zap.String("copy_id", dup.ID))
	return dup, nil
}
