package handler

import (
	"fmt"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/middleware"
	"quiz-gen/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz generation and management requests
type QuizHandler struct {
	generator service.GenerationService
	quizzes   service.QuizService
	exporter  service.ExportService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(generator service.GenerationService, quizzes service.QuizService, exporter service.ExportService) *QuizHandler {
	return &QuizHandler{
		generator: generator,
		quizzes:   quizzes,
		exporter:  exporter,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from an uploaded file
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Generation parameters"
// @Success 200 {object} dto.QuizGenerationResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /generate-quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	req := middleware.ValidatedBody[dto.GenerateQuizRequest](c)
	if req == nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	quiz, err := h.generator.GenerateFromFile(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizGenerationResponse(quiz))
}

// GenerateQuizDirect godoc
// @Summary Generate a quiz from text
// @Description Generates questions from the text in the request body; the quiz is stored only when persist is true
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.DirectQuizRequest true "Text and generation parameters"
// @Success 200 {object} dto.DirectQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /generate-quiz-direct [post]
func (h *QuizHandler) GenerateQuizDirect(c *fiber.Ctx) error {
	req := middleware.ValidatedBody[dto.DirectQuizRequest](c)
	if req == nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	quiz, err := h.generator.GenerateFromText(c.UserContext(), service.DirectGeneration{
		Text:     req.TextContent,
		Request:  req.ToDomain(),
		Provider: req.AIService,
		Persist:  req.Persist,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.DirectQuizResponse{Quiz: dto.NewQuizResponse(quiz)})
}

// ListQuizzes godoc
// @Summary List quizzes
// @Tags quiz
// @Produce json
// @Param file_id query string false "Only quizzes generated from this file"
// @Success 200 {array} dto.QuizResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.quizzes.ListQuizzes(c.UserContext(), c.Query("file_id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponseList(quizzes))
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizzes.GetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// UpdateQuiz godoc
// @Summary Update a quiz
// @Description Partial update; fields that are absent stay unchanged
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Fields to change"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	req := middleware.ValidatedBody[dto.UpdateQuizRequest](c)
	if req == nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	quiz, err := h.quizzes.UpdateQuiz(c.UserContext(), c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.quizzes.DeleteQuiz(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Quiz %s deleted successfully", id)})
}

// DuplicateQuiz godoc
// @Summary Duplicate a quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/duplicate [post]
func (h *QuizHandler) DuplicateQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizzes.DuplicateQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// ExportQuiz godoc
// @Summary Export a quiz as an Excel workbook
// @Tags quiz
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Quiz ID"
// @Success 200 {file} file
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/export [get]
func (h *QuizHandler) ExportQuiz(c *fiber.Ctx) error {
	data, filename, err := h.exporter.ExportQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, service.XLSXContentType)
	return c.Send(data)
}
