package main

import (
	"fmt"
	"strings"

	"quiz-gen/internal/dto"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/service"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Health-check the configured LLM providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		providers, cleanup := buildProviders(cmd.Context(), cfg)
		defer cleanup()

		status := service.NewStatusService(providers.Generator, providers.Members, providers.Skipped, providers.MockMode, logger.Get()).
			LLMStatus(cmd.Context())
		resp := dto.NewLLMStatusResponse(status)

		fmt.Printf("Mode:      %s\n", resp.Mode)
		fmt.Printf("Status:    %s\n", resp.Status)
		fmt.Printf("Generator: %s\n", resp.Provider)
		fmt.Println(strings.Repeat("─", 60))
		for _, p := range resp.Providers {
			mark := "✓"
			if !p.Healthy {
				mark = "✗"
			}
			fmt.Printf("%s %-12s %s\n", mark, p.Name, p.Error)
		}

		if !status.Ready {
			return fmt.Errorf("no provider is ready")
		}
		return nil
	},
}
