package dto

import (
	"fmt"

	"quiz-gen/internal/service"
)

// HealthResponse is the liveness probe body
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ProviderStatus is the health of one configured LLM provider
type ProviderStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// LLMStatusResponse reports the LLM integration state
type LLMStatusResponse struct {
	Mode      string           `json:"mode"`
	Status    string           `json:"status"`
	Message   string           `json:"message"`
	Provider  string           `json:"provider"`
	Providers []ProviderStatus `json:"providers"`
}

func NewLLMStatusResponse(s *service.LLMStatus) LLMStatusResponse {
	resp := LLMStatusResponse{
		Mode:      "real",
		Status:    "error",
		Provider:  s.Provider,
		Providers: make([]ProviderStatus, len(s.Providers)),
	}
	for i, p := range s.Providers {
		resp.Providers[i] = ProviderStatus{Name: p.Name, Healthy: p.Healthy, Error: p.Error}
	}

	switch {
	case s.MockMode:
		resp.Mode = "mock"
		resp.Status = "ready"
		resp.Message = "Running in mock mode - generates sample questions"
	case s.Ready:
		resp.Status = "ready"
		resp.Message = fmt.Sprintf("LLM provider %s is available", s.Provider)
	default:
		resp.Message = "No AI services available"
	}
	return resp
}
