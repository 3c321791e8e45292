package parser

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const replySchemaURL = "schema://quiz-reply.json"

const replySchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "title": {"type": ["string", "null"]},
    "difficulty": {"type": ["string", "null"]},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": ["string", "integer", "null"]},
          "type": {"type": ["string", "null"]},
          "question": {"type": ["string", "null"]},
          "options": {"type": ["array", "null"], "items": {"type": "string"}},
          "answer": {"type": ["string", "boolean", "number", "null"]},
          "explanation": {"type": ["string", "null"]},
          "bloom_level": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func replySchemaValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(replySchema), &doc); err != nil {
			compileErr = fmt.Errorf("parse reply schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(replySchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add reply schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(replySchemaURL)
	})
	return compiledSchema, compileErr
}

// validateReply checks the decoded reply against the expected shape.
func validateReply(doc any) error {
	schema, err := replySchemaValidator()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
