package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"quiz-gen/internal/adapter"
	"quiz-gen/internal/adapter/quizgen"
	"quiz-gen/internal/cache"
	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "quizgen",
	Short:         "Generate quizzes from local documents",
	Long:          "quizgen extracts text from PDF, DOCX and TXT files and generates quiz questions with the configured LLM providers.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.Initialize(config.LoggerConfig{Level: level, Env: "development"})
	},
}

func Execute() error {
	defer logger.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().Bool("mock", false, "Use the mock generator instead of calling an LLM")
	rootCmd.PersistentFlags().String("providers", "", "Comma-separated provider fallback order (overrides LLM_PROVIDERS)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(providersCmd)
}

// loadConfig reads the shared configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if mock, _ := cmd.Flags().GetBool("mock"); mock {
		cfg.LLM.MockMode = true
	}
	if providers, _ := cmd.Flags().GetString("providers"); providers != "" {
		var names []string
		for _, p := range strings.Split(providers, ",") {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				names = append(names, p)
			}
		}
		cfg.LLM.Providers = names
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// buildProviders wires the optional Redis cache and the provider set.
// The returned cleanup closes the Redis connection when one was opened.
func buildProviders(ctx context.Context, cfg *config.Config) (*quizgen.ProviderSet, func()) {
	log := logger.Get()
	cleanup := func() {}

	var llmCache domain.Cache
	if cfg.Redis.Address != "" && !cfg.LLM.MockMode {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, LLM response cache disabled", zap.Error(err))
		} else {
			llmCache = adapter.NewRedisCacheAdapter(client)
			cleanup = func() { _ = client.Close() }
		}
	}

	return quizgen.NewProviderSet(ctx, cfg.LLM, llmCache, cfg.Cache.LLMTTL, log), cleanup
}
