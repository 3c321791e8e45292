package domain

import "context"

const (
	TopicFileUploaded  = "file.uploaded"
	TopicQuizGenerated = "quiz.generated"
)

// FileUploadedEvent is published once an upload has been stored.
type FileUploadedEvent struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// QuizGeneratedEvent is published after a quiz has been persisted.
type QuizGeneratedEvent struct {
	QuizID        string `json:"quiz_id"`
	SourceFileID  string `json:"source_file_id"`
	QuestionCount int    `json:"question_count"`
	Provider      string `json:"provider"`
}

// EventPublisher publishes domain events; delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}
