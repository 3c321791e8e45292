package extractor

import (
	"bytes"
	"io"
	"strings"

	"quiz-gen/internal/domain"

	"github.com/ledongthuc/pdf"
)

const (
	// metadataRatioLimit is the share of structural lines above which a PDF is rejected.
	metadataRatioLimit = 0.7

	msgPDFImageOnly = "This PDF appears to contain images or scanned text that cannot be automatically extracted. " +
		"Please upload a text-based PDF, or convert the content to a Word document (.docx) or plain text file (.txt)."
	msgPDFMetadata = "This PDF contains mostly technical data rather than readable content. " +
		"It might be image-based or use complex formatting. Please upload the content as a Word document (.docx) or plain text file (.txt)."
)

var structuralTokens = []string{"obj", "endobj", "stream", "FlateDecode", "ICCBased"}

func readPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *Extractor) extractPDF(content []byte) (string, error) {
	raw, err := e.readPDF(content)
	if err != nil {
		return "", domain.NewParsingError("Failed to parse PDF", err)
	}
	return checkPDFText(raw)
}

// checkPDFText rejects text dominated by PDF structure tokens and drops
// markup lines from what remains.
func checkPDFText(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", domain.NewParsingError(msgPDFImageOnly, nil)
	}

	var (
		total, structural int
		kept              []string
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		total++
		if isStructuralLine(line) {
			structural++
		}
		if !isMarkupLine(line) {
			kept = append(kept, line)
		}
	}

	if total > 0 && float64(structural)/float64(total) > metadataRatioLimit {
		return "", domain.NewParsingError(msgPDFMetadata, nil)
	}

	text := CleanText(strings.Join(kept, "\n"))
	if text == "" {
		return "", domain.NewParsingError(msgPDFImageOnly, nil)
	}
	return text, nil
}

func isStructuralLine(line string) bool {
	if strings.HasPrefix(line, "/") || strings.HasPrefix(line, "%") {
		return true
	}
	for _, tok := range structuralTokens {
		if strings.Contains(line, tok) {
			return true
		}
	}
	return false
}

// isMarkupLine is narrower than isStructuralLine so prose mentioning
// "object" or "stream" survives.
func isMarkupLine(line string) bool {
	if strings.HasPrefix(line, "/") || strings.HasPrefix(line, "%") {
		return true
	}
	switch strings.Fields(line)[0] {
	case "obj", "endobj", "stream", "endstream":
		return true
	}
	return strings.HasSuffix(line, " obj")
}
