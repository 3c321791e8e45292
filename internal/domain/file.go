package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// FileType is the declared document format of an upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// FileTypeFromName derives the file type from the filename suffix.
func FileTypeFromName(filename string) (FileType, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch FileType(ext) {
	case FileTypePDF, FileTypeDOCX, FileTypeTXT:
		return FileType(ext), true
	}
	return "", false
}

// UploadedFile is a stored document. Content is immutable after upload.
type UploadedFile struct {
	ID            string
	Filename      string
	FileType      FileType
	FileSize      int64
	Content       []byte
	UploadTime    time.Time
	TextExtracted bool
	WordCount     *int
}

// ExtractedText is the normalized text of a file, written all-or-nothing.
type ExtractedText struct {
	FileID         string
	Text           string
	WordCount      int
	ExtractionTime float64
}
