package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/extractor"
	"quiz-gen/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TextExtractor turns raw document bytes into normalized text.
type TextExtractor interface {
	Extract(filename string, content []byte) (*extractor.Result, error)
}

// FileService defines upload, lookup and text extraction of study material
type FileService interface {
	Upload(ctx context.Context, filename string, content []byte) (*domain.UploadedFile, error)
	ListFiles(ctx context.Context) ([]*domain.UploadedFile, error)
	GetFile(ctx context.Context, fileID string) (*domain.UploadedFile, error)
	// GetText returns the stored text of a file, extracting it first when needed.
	GetText(ctx context.Context, fileID string) (*domain.ExtractedText, error)
	// ExtractText always runs extraction and overwrites any stored text.
	ExtractText(ctx context.Context, fileID string) (*domain.ExtractedText, error)
	DeleteFile(ctx context.Context, fileID string) error
	// HandleFileUploaded is the file.uploaded subscriber running background extraction.
	HandleFileUploaded(ctx context.Context, event domain.FileUploadedEvent) error
}

type fileService struct {
	repo        domain.FileRepository
	extractor   TextExtractor
	publisher   domain.EventPublisher
	maxFileSize int64
	logger      *zap.Logger

	group singleflight.Group
	now   func() time.Time
	newID func() string
}

// NewFileService creates a FileService. publisher may be nil.
func NewFileService(
	repo domain.FileRepository,
	textExtractor TextExtractor,
	publisher domain.EventPublisher,
	maxFileSize int64,
	logger *zap.Logger,
) FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fileService{
		repo:        repo,
		extractor:   textExtractor,
		publisher:   publisher,
		maxFileSize: maxFileSize,
		logger:      logger,
		now:         time.Now,
		newID:       util.NewUUID,
	}
}

func (s *fileService) Upload(ctx context.Context, filename string, content []byte) (*domain.UploadedFile, error) {
	fileType, ok := domain.FileTypeFromName(filename)
	if !ok {
		return nil, domain.NewInvalidInputError("Unsupported file type. Please upload PDF, DOCX, or TXT files.").
			WithContext("filename", filename)
	}
	if int64(len(content)) > s.maxFileSize {
		return nil, domain.NewPayloadTooLargeError(
			fmt.Sprintf("File too large. Maximum size is %dMB.", s.maxFileSize/(1024*1024)),
		).WithContext("file_size", len(content))
	}
	if len(content) == 0 {
		return nil, domain.NewInvalidInputError("Empty file uploaded.")
	}

	file := &domain.UploadedFile{
		ID:         s.newID(),
		Filename:   filename,
		FileType:   fileType,
		FileSize:   int64(len(content)),
		Content:    content,
		UploadTime: s.now(),
	}
	if err := s.repo.StoreFile(ctx, file); err != nil {
		return nil, domain.NewInternalError("Failed to store file", err)
	}
	s.logger.Info("File uploaded",
		zap.String("file_id", file.ID),
		zap.String("filename", filename),
		zap.Int64("file_size", file.FileSize),
	)

	if s.publisher != nil {
		event := domain.FileUploadedEvent{FileID: file.ID, Filename: filename}
		if err := s.publisher.Publish(ctx, domain.TopicFileUploaded, event); err != nil {
			s.logger.Warn("Failed to publish file uploaded event", zap.String("file_id", file.ID), zap.Error(err))
		}
	}
	return file, nil
}

func (s *fileService) ListFiles(ctx context.Context) ([]*domain.UploadedFile, error) {
	files, err := s.repo.ListFiles(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to retrieve files", err)
	}
	return files, nil
}

func (s *fileService) GetFile(ctx context.Context, fileID string) (*domain.UploadedFile, error) {
	return s.repo.GetFile(ctx, fileID)
}

func (s *fileService) GetText(ctx context.Context, fileID string) (*domain.ExtractedText, error) {
	if _, err := s.repo.GetFile(ctx, fileID); err != nil {
		return nil, err
	}
	text, err := s.repo.GetExtractedText(ctx, fileID)
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, domain.ErrTextNotFound) {
		return nil, err
	}
	return s.ExtractText(ctx, fileID)
}

// ExtractText collapses concurrent calls for the same file into one extraction.
func (s *fileService) ExtractText(ctx context.Context, fileID string) (*domain.ExtractedText, error) {
	v, err, shared := s.group.Do(fileID, func() (interface{}, error) {
		return s.extract(ctx, fileID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Joined in-flight extraction", zap.String("file_id", fileID))
	}
	text := *v.(*domain.ExtractedText)
	return &text, nil
}

func (s *fileService) extract(ctx context.Context, fileID string) (*domain.ExtractedText, error) {
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	content, err := s.repo.GetFileContent(ctx, fileID)
	if err != nil {
		return nil, err
	}

	start := s.now()
	result, err := s.extractor.Extract(file.Filename, content)
	if err != nil {
		return nil, err
	}
	text := &domain.ExtractedText{
		FileID:         fileID,
		Text:           result.Text,
		WordCount:      result.WordCount,
		ExtractionTime: s.now().Sub(start).Seconds(),
	}
	if err := s.repo.StoreExtractedText(ctx, text); err != nil {
		return nil, err
	}

	s.logger.Info("Text extracted",
		zap.String("file_id", fileID),
		zap.Int("word_count", text.WordCount),
		zap.Float64("extraction_time", text.ExtractionTime),
	)
	return text, nil
}

func (s *fileService) DeleteFile(ctx context.Context, fileID string) error {
	if err := s.repo.DeleteFile(ctx, fileID); err != nil {
		return err
	}
	s.logger.Info("File deleted", zap.String("file_id", fileID))
	return nil
}

func (s *fileService) HandleFileUploaded(ctx context.Context, event domain.FileUploadedEvent) error {
	_, err := s.ExtractText(ctx, event.FileID)
	if errors.Is(err, domain.ErrFileNotFound) {
		// deleted before the subscriber ran
		return nil
	}
	if err != nil {
		return fmt.Errorf("background extraction of %s: %w", event.FileID, err)
	}
	return nil
}
