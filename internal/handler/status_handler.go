package handler

import (
	"quiz-gen/internal/dto"
	"quiz-gen/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StatusHandler serves liveness and LLM status probes
type StatusHandler struct {
	status service.StatusService
}

func NewStatusHandler(status service.StatusService) *StatusHandler {
	return &StatusHandler{status: status}
}

// Health godoc
// @Summary Liveness probe
// @Tags status
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *StatusHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "healthy", Message: "Quiz Generator API is running"})
}

// LLMStatus godoc
// @Summary LLM integration status
// @Description Runs a health check against every configured provider
// @Tags status
// @Produce json
// @Success 200 {object} dto.LLMStatusResponse
// @Router /llm-status [get]
func (h *StatusHandler) LLMStatus(c *fiber.Ctx) error {
	return c.JSON(dto.NewLLMStatusResponse(h.status.LLMStatus(c.UserContext())))
}
