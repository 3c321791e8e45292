package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"quiz-gen/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator validates request DTOs through struct tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the custom rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerCustomValidators(v)
	return &Validator{validate: v}
}

// Struct validates s and returns nil or domain.ValidationErrors.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInternalError("request validation failed", err)
	}
	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

func registerCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("question_type", validateQuestionType)

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	t := domain.QuestionType(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	return t.Valid()
}

// fieldPath drops the root struct name from the namespace,
// e.g. "UpdateQuizRequest.questions[0].question" → "questions[0].question".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "gte":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("must be at least %s", describeLimit(fe)),
		}
	case "max", "lte":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("must be at most %s", describeLimit(fe)),
		}
	case "question_type":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeInvalidFormat,
			Message: fmt.Sprintf("invalid question type %q, expected one of multiple_choice, true_false, short_answer", fe.Value()),
		}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// describeLimit words a min/max parameter for numbers, strings and lists.
func describeLimit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fe.Param() + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return fe.Param() + " items"
	default:
		return fe.Param()
	}
}
