package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"quiz-gen/internal/domain"
)

const docxBodyPart = "word/document.xml"

func (e *Extractor) extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.NewParsingError("Failed to parse DOCX", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", domain.NewParsingError("Failed to parse DOCX", errors.New("missing "+docxBodyPart))
	}

	rc, err := body.Open()
	if err != nil {
		return "", domain.NewParsingError("Failed to parse DOCX", err)
	}
	defer rc.Close()

	raw, err := docxText(rc)
	if err != nil {
		return "", domain.NewParsingError("Failed to parse DOCX", err)
	}

	text := CleanText(raw)
	if text == "" {
		return "", domain.NewParsingError("No readable text found in DOCX", nil)
	}
	return text, nil
}

// docxText walks WordprocessingML, emitting <w:t> runs and a newline per paragraph.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				var v string
				if err := dec.DecodeElement(&v, &el); err != nil {
					return "", err
				}
				out.WriteString(v)
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			if el.Name.Local == "p" {
				out.WriteByte('\n')
			}
		}
	}
	return out.String(), nil
}
