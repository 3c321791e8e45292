package extractor

import (
	"strings"
	"unicode/utf8"

	"quiz-gen/internal/domain"

	"golang.org/x/text/encoding/charmap"
)

// Decoder turns raw bytes into text, reporting false when the bytes are not
// valid in its encoding.
type Decoder struct {
	Name   string
	Decode func(content []byte) (string, bool)
}

// DefaultDecoders is the ordered list tried for plain text uploads.
func DefaultDecoders() []Decoder {
	return []Decoder{
		UTF8Decoder(),
		CharmapDecoder("latin-1", charmap.ISO8859_1),
		CharmapDecoder("cp1252", charmap.Windows1252),
		CharmapDecoder("iso-8859-1", charmap.ISO8859_1),
	}
}

// UTF8Decoder accepts only valid UTF-8 and strips a leading byte order mark.
func UTF8Decoder() Decoder {
	return Decoder{
		Name: "utf-8",
		Decode: func(content []byte) (string, bool) {
			if !utf8.Valid(content) {
				return "", false
			}
			return strings.TrimPrefix(string(content), "\ufeff"), true
		},
	}
}

// CharmapDecoder decodes a single-byte encoding. Output containing unmapped
// bytes or C1 control characters is rejected so the next decoder gets a turn.
func CharmapDecoder(name string, cm *charmap.Charmap) Decoder {
	return Decoder{
		Name: name,
		Decode: func(content []byte) (string, bool) {
			out, err := cm.NewDecoder().Bytes(content)
			if err != nil {
				return "", false
			}
			s := string(out)
			for _, r := range s {
				if r == utf8.RuneError || (r >= 0x80 && r <= 0x9F) {
					return "", false
				}
			}
			return s, true
		},
	}
}

func (e *Extractor) extractTXT(content []byte) (string, error) {
	for _, d := range e.decoders {
		decoded, ok := d.Decode(content)
		if !ok {
			continue
		}
		text := CleanText(decoded)
		if text == "" {
			return "", domain.NewParsingError("Text file appears to be empty", nil)
		}
		return text, nil
	}
	return "", domain.NewParsingError("Unable to decode text file with any supported encoding", nil)
}
