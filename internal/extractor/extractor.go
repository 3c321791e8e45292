// Package extractor converts uploaded documents into normalized plain text.
package extractor

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"quiz-gen/internal/domain"

	"go.uber.org/zap"
)

// Result is the normalized text of a document and its word count.
type Result struct {
	Text      string
	WordCount int
}

// Extractor dispatches on the filename suffix to a format handler.
type Extractor struct {
	decoders []Decoder
	readPDF  func(content []byte) (string, error)
	logger   *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDecoders replaces the ordered list of text decoders tried for .txt files.
func WithDecoders(decoders ...Decoder) Option {
	return func(e *Extractor) {
		e.decoders = decoders
	}
}

// WithPDFReader replaces the function that pulls raw text out of PDF bytes.
func WithPDFReader(read func(content []byte) (string, error)) Option {
	return func(e *Extractor) {
		e.readPDF = read
	}
}

// New creates an Extractor with the default decoder list and PDF reader.
func New(logger *zap.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		decoders: DefaultDecoders(),
		readPDF:  readPDFText,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the normalized text of content, or a PARSING_ERROR domain error.
func (e *Extractor) Extract(filename string, content []byte) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = e.extractPDF(content)
	case ".docx":
		text, err = e.extractDOCX(content)
	case ".txt":
		text, err = e.extractTXT(content)
	default:
		return nil, domain.NewParsingError(fmt.Sprintf("Unsupported file format: %s", ext), nil)
	}
	if err != nil {
		e.logger.Warn("Text extraction failed",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, err
	}

	result := &Result{Text: text, WordCount: CountWords(text)}
	e.logger.Debug("Text extracted",
		zap.String("filename", filename),
		zap.Int("word_count", result.WordCount),
		zap.String("preview", preview(text, 200)),
	)
	return result, nil
}

var (
	blankLinesRe = regexp.MustCompile(`\n\s*\n`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
)

// CleanText strips control characters other than newline and tab, then
// collapses blank-line runs and space/tab runs and trims. Stripping comes
// first so a removed character cannot leave a run behind.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CountWords counts whitespace-delimited tokens.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
