package dto

import (
	"time"

	"quiz-gen/internal/domain"
)

// UploadResponse is returned after a file has been stored
// @Description Upload result; text extraction continues in the background
type UploadResponse struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// FileInfo describes an uploaded file without its content
type FileInfo struct {
	FileID        string    `json:"file_id"`
	Filename      string    `json:"filename"`
	FileType      string    `json:"file_type"`
	FileSize      int64     `json:"file_size"`
	UploadTime    time.Time `json:"upload_time"`
	TextExtracted bool      `json:"text_extracted"`
	WordCount     *int      `json:"word_count,omitempty"`
}

// ExtractedTextResponse is the normalized text of a file
type ExtractedTextResponse struct {
	FileID         string  `json:"file_id"`
	TextContent    string  `json:"text_content"`
	WordCount      int     `json:"word_count"`
	ExtractionTime float64 `json:"extraction_time"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

func NewUploadResponse(f *domain.UploadedFile) UploadResponse {
	return UploadResponse{
		FileID:   f.ID,
		Filename: f.Filename,
		FileType: string(f.FileType),
		FileSize: f.FileSize,
		Status:   "processing",
		Message:  "File uploaded successfully. Text extraction in progress.",
	}
}

func NewFileInfo(f *domain.UploadedFile) FileInfo {
	return FileInfo{
		FileID:        f.ID,
		Filename:      f.Filename,
		FileType:      string(f.FileType),
		FileSize:      f.FileSize,
		UploadTime:    f.UploadTime,
		TextExtracted: f.TextExtracted,
		WordCount:     f.WordCount,
	}
}

func NewFileInfoList(files []*domain.UploadedFile) []FileInfo {
	out := make([]FileInfo, len(files))
	for i, f := range files {
		out[i] = NewFileInfo(f)
	}
	return out
}

func NewExtractedTextResponse(t *domain.ExtractedText) ExtractedTextResponse {
	return ExtractedTextResponse{
		FileID:         t.FileID,
		TextContent:    t.Text,
		WordCount:      t.WordCount,
		ExtractionTime: t.ExtractionTime,
	}
}
