package domain

import "context"

// FileRepository stores uploaded files and their extracted text
type FileRepository interface {
	StoreFile(ctx context.Context, file *UploadedFile) error
	GetFile(ctx context.Context, fileID string) (*UploadedFile, error)
	GetFileContent(ctx context.Context, fileID string) ([]byte, error)
	ListFiles(ctx context.Context) ([]*UploadedFile, error)
	// DeleteFile removes the file together with its text and every quiz generated from it
	DeleteFile(ctx context.Context, fileID string) error

	StoreExtractedText(ctx context.Context, text *ExtractedText) error
	GetExtractedText(ctx context.Context, fileID string) (*ExtractedText, error)
}

// QuizRepository stores generated quizzes
type QuizRepository interface {
	StoreQuiz(ctx context.Context, quiz *Quiz) error
	GetQuiz(ctx context.Context, quizID string) (*Quiz, error)
	// ListQuizzes returns quizzes newest first; an empty fileID returns all of them
	ListQuizzes(ctx context.Context, fileID string) ([]*Quiz, error)
	UpdateQuiz(ctx context.Context, quizID string, update QuizUpdate) (*Quiz, error)
	DeleteQuiz(ctx context.Context, quizID string) error
	DuplicateQuiz(ctx context.Context, quizID string) (*Quiz, error)
}
