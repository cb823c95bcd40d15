package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// quizQuestionsSchema describes the questions column of a quiz
const quizQuestionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["question", "options", "answer"],
    "properties": {
      "question": {"type": "string", "minLength": 1},
      "options": {
        "type": "array",
        "minItems": 2,
        "items": {"type": "string", "minLength": 1}
      },
      "answer": {"type": "string", "minLength": 1}
    }
  }
}`

var quizSchema = gojsonschema.NewStringLoader(quizQuestionsSchema)

// ValidateQuizQuestions validates questions (any JSON-marshalable value) against the
// quiz schema and returns one message per violation
func ValidateQuizQuestions(questions interface{}) ([]string, error) {
	result, err := gojsonschema.Validate(quizSchema, gojsonschema.NewGoLoader(questions))
	if err != nil {
		return nil, fmt.Errorf("quiz schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems, nil
}
