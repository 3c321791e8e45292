package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/util"
)

// MemoryStore implements domain.FileRepository and domain.QuizRepository with
// process-local maps. Records are copied on the way in and out, writes
// replace whole records (last writer wins), and nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	files   map[string]*domain.UploadedFile
	texts   map[string]*domain.ExtractedText
	quizzes map[string]*domain.Quiz
	now     func() time.Time
	newID   func() string
}

var (
	_ domain.FileRepository = (*MemoryStore)(nil)
	_ domain.QuizRepository = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files:   make(map[string]*domain.UploadedFile),
		texts:   make(map[string]*domain.ExtractedText),
		quizzes: make(map[string]*domain.Quiz),
		now:     time.Now,
		newID:   util.NewUUID,
	}
}

func fileNotFound(fileID string) error {
	return domain.NewNotFoundError(fmt.Sprintf("file %s not found", fileID), domain.ErrFileNotFound)
}

func quizNotFound(quizID string) error {
	return domain.NewNotFoundError(fmt.Sprintf("quiz %s not found", quizID), domain.ErrQuizNotFound)
}

func cloneFile(f *domain.UploadedFile) *domain.UploadedFile {
	c := *f
	if f.WordCount != nil {
		wc := *f.WordCount
		c.WordCount = &wc
	}
	return &c
}

// StoreFile inserts or replaces a file record.
func (s *MemoryStore) StoreFile(ctx context.Context, file *domain.UploadedFile) error {
	if file == nil || file.ID == "" {
		return domain.NewInvalidInputError("file id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.ID] = cloneFile(file)
	return nil
}

func (s *MemoryStore) GetFile(ctx context.Context, fileID string) (*domain.UploadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[fileID]
	if !ok {
		return nil, fileNotFound(fileID)
	}
	return cloneFile(f), nil
}

// GetFileContent returns the raw bytes; callers must not modify them.
func (s *MemoryStore) GetFileContent(ctx context.Context, fileID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[fileID]
	if !ok {
		return nil, fileNotFound(fileID)
	}
	return f.Content, nil
}

// ListFiles returns all files, most recent upload first.
func (s *MemoryStore) ListFiles(ctx context.Context) ([]*domain.UploadedFile, error) {
	s.mu.RLock()
	files := make([]*domain.UploadedFile, 0, len(s.files))
	for _, f := range s.files {
		files = append(files, cloneFile(f))
	}
	s.mu.RUnlock()

	sort.Slice(files, func(i, j int) bool {
		if files[i].UploadTime.Equal(files[j].UploadTime) {
			return files[i].ID < files[j].ID
		}
		return files[i].UploadTime.After(files[j].UploadTime)
	})
	return files, nil
}

// DeleteFile removes the file, its extracted text and every quiz generated from it.
func (s *MemoryStore) DeleteFile(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[fileID]; !ok {
		return fileNotFound(fileID)
	}
	delete(s.files, fileID)
	delete(s.texts, fileID)
	for id, q := range s.quizzes {
		if q.SourceFileID == fileID {
			delete(s.quizzes, id)
		}
	}
	return nil
}

// StoreExtractedText replaces the text of an existing file and marks the file as extracted.
func (s *MemoryStore) StoreExtractedText(ctx context.Context, text *domain.ExtractedText) error {
	if text == nil {
		return domain.NewInvalidInputError("extracted text is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[text.FileID]
	if !ok {
		return fileNotFound(text.FileID)
	}
	t := *text
	s.texts[text.FileID] = &t

	updated := cloneFile(f)
	wc := text.WordCount
	updated.TextExtracted = true
	updated.WordCount = &wc
	s.files[text.FileID] = updated
	return nil
}

func (s *MemoryStore) GetExtractedText(ctx context.Context, fileID string) (*domain.ExtractedText, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.texts[fileID]
	if !ok {
		return nil, domain.NewNotFoundError(fmt.Sprintf("no extracted text for file %s", fileID), domain.ErrTextNotFound)
	}
	c := *t
	return &c, nil
}

// StoreQuiz inserts or replaces a quiz.
func (s *MemoryStore) StoreQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil || quiz.ID == "" {
		return domain.NewInvalidInputError("quiz id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz.Clone()
	return nil
}

func (s *MemoryStore) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[quizID]
	if !ok {
		return nil, quizNotFound(quizID)
	}
	return q.Clone(), nil
}

func (s *MemoryStore) ListQuizzes(ctx context.Context, fileID string) ([]*domain.Quiz, error) {
	s.mu.RLock()
	quizzes := make([]*domain.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		if fileID == "" || q.SourceFileID == fileID {
			quizzes = append(quizzes, q.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(quizzes, func(i, j int) bool {
		if quizzes[i].CreatedAt.Equal(quizzes[j].CreatedAt) {
			return quizzes[i].ID < quizzes[j].ID
		}
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

// UpdateQuiz applies a partial update and stamps UpdatedAt. The stored quiz is
// left untouched when the update is rejected.
func (s *MemoryStore) UpdateQuiz(ctx context.Context, quizID string, update domain.QuizUpdate) (*domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.quizzes[quizID]
	if !ok {
		return nil, quizNotFound(quizID)
	}
	updated := current.Clone()
	if err := update.Apply(updated, s.now()); err != nil {
		return nil, err
	}
	s.quizzes[quizID] = updated
	return updated.Clone(), nil
}

func (s *MemoryStore) DeleteQuiz(ctx context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return quizNotFound(quizID)
	}
	delete(s.quizzes, quizID)
	return nil
}

// DuplicateQuiz stores a copy under a new id with fresh timestamps and question ids.
func (s *MemoryStore) DuplicateQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	original, ok := s.quizzes[quizID]
	if !ok {
		return nil, quizNotFound(quizID)
	}

	dup := original.Clone()
	dup.ID = s.newID()
	dup.Title = "Copy of " + original.Title
	dup.CreatedAt = s.now()
	dup.UpdatedAt = nil
	for i := range dup.Questions {
		dup.Questions[i].ID = util.NewULID()
	}
	if dup.Metadata == nil {
		dup.Metadata = make(map[string]interface{})
	}
	dup.Metadata["duplicated_from"] = original.ID

	s.quizzes[dup.ID] = dup
	return dup.Clone(), nil
}
