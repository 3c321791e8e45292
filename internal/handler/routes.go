package handler

import (
	"quiz-gen/internal/dto"
	"quiz-gen/internal/middleware"
	"quiz-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the health probe and the /api group on app.
func RegisterRoutes(app *fiber.App, files *FileHandler, quizzes *QuizHandler, status *StatusHandler, v *validation.Validator) {
	app.Get("/health", status.Health)

	api := app.Group("/api")
	api.Get("/llm-status", status.LLMStatus)

	api.Post("/upload", files.Upload)
	api.Get("/files", files.ListFiles)
	api.Get("/files/:id", files.GetFile)
	api.Get("/files/:id/text", files.GetText)
	api.Delete("/files/:id", files.DeleteFile)

	api.Post("/generate-quiz", middleware.ValidateBody[dto.GenerateQuizRequest](v), quizzes.GenerateQuiz)
	api.Post("/generate-quiz-direct", middleware.ValidateBody[dto.DirectQuizRequest](v), quizzes.GenerateQuizDirect)
	api.Get("/quizzes", quizzes.ListQuizzes)
	api.Get("/quizzes/:id", quizzes.GetQuiz)
	api.Put("/quizzes/:id", middleware.ValidateBody[dto.UpdateQuizRequest](v), quizzes.UpdateQuiz)
	api.Delete("/quizzes/:id", quizzes.DeleteQuiz)
	api.Post("/quizzes/:id/duplicate", quizzes.DuplicateQuiz)
	api.Get("/quizzes/:id/export", quizzes.ExportQuiz)
}
