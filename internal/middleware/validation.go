package middleware

import (
	"quiz-gen/internal/domain"
	"quiz-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const validatedBodyKey = "validated_body"

// ValidateBody parses the JSON body into T, validates it and stores it for
// the handler; read it back with ValidatedBody.
func ValidateBody[T any](v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return domain.NewInvalidInputError("Invalid request body").WithContext("error", err.Error())
		}
		if err := v.Struct(body); err != nil {
			return err // rendered by ErrorHandler
		}
		c.Locals(validatedBodyKey, body)
		return c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateBody, or nil.
func ValidatedBody[T any](c *fiber.Ctx) *T {
	body, _ := c.Locals(validatedBodyKey).(*T)
	return body
}
