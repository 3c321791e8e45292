package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Logger LoggerConfig
	Upload UploadConfig
	LLM    LLMConfig
	Redis  RedisConfig
	Cache  CacheConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type UploadConfig struct {
	MaxFileSize int64
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	LLMTTL time.Duration
}

// LLMConfig configures the question generators.
type LLMConfig struct {
	// Providers is the fallback order, e.g. ["gemini", "groq"]. "mock" is only
	// used when listed here or when MockMode is set.
	Providers      []string
	MockMode       bool
	Timeout        time.Duration
	ChunkSize      int
	RetryBaseDelay time.Duration

	Gemini      ProviderConfig
	Groq        ProviderConfig
	OpenAI      ProviderConfig
	Anthropic   ProviderConfig
	Ollama      ProviderConfig
	HuggingFace ProviderConfig
}

// ProviderConfig holds the settings of a single LLM vendor.
type ProviderConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 180)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("upload.max_file_size", 10*1024*1024)

	v.SetDefault("llm.providers", []string{"gemini", "groq"})
	v.SetDefault("llm.mock_mode", false)
	v.SetDefault("llm.timeout", 120)
	v.SetDefault("llm.chunk_size", 4000)
	v.SetDefault("llm.retry_base_delay", "1s")

	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	v.SetDefault("llm.gemini.max_retries", 2)
	v.SetDefault("llm.groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.groq.max_retries", 2)
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.max_retries", 2)
	v.SetDefault("llm.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("llm.anthropic.max_retries", 2)
	v.SetDefault("llm.ollama.model", "llama3.2")
	v.SetDefault("llm.ollama.base_url", "http://localhost:11434")
	v.SetDefault("llm.ollama.max_retries", 2)
	v.SetDefault("llm.huggingface.model", "gpt2")
	v.SetDefault("llm.huggingface.max_retries", 1)

	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.llm_ttl", "24h")
}

// LoadConfig reads config.yaml (optional), a .env file (optional) and the
// process environment, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// .env is a development convenience; a missing file is fine.
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Upload: UploadConfig{
			MaxFileSize: v.GetInt64("upload.max_file_size"),
		},
		LLM: LLMConfig{
			Providers:      normalizeProviders(v.GetStringSlice("llm.providers")),
			MockMode:       v.GetBool("llm.mock_mode"),
			Timeout:        time.Duration(v.GetInt("llm.timeout")) * time.Second,
			ChunkSize:      v.GetInt("llm.chunk_size"),
			RetryBaseDelay: v.GetDuration("llm.retry_base_delay"),
			Gemini:         providerFromViper(v, "gemini"),
			Groq:           providerFromViper(v, "groq"),
			OpenAI:         providerFromViper(v, "openai"),
			Anthropic:      providerFromViper(v, "anthropic"),
			Ollama:         providerFromViper(v, "ollama"),
			HuggingFace:    providerFromViper(v, "huggingface"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			LLMTTL: v.GetDuration("cache.llm_ttl"),
		},
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func providerFromViper(v *viper.Viper, name string) ProviderConfig {
	prefix := "llm." + name + "."
	return ProviderConfig{
		APIKey:     v.GetString(prefix + "api_key"),
		Model:      v.GetString(prefix + "model"),
		BaseURL:    v.GetString(prefix + "base_url"),
		MaxRetries: v.GetInt(prefix + "max_retries"),
	}
}

// applyEnvOverrides maps the conventional vendor variable names onto the config.
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.Gemini.APIKey = key
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.LLM.Groq.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.OpenAI.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.LLM.Anthropic.APIKey = key
	}
	if key := os.Getenv("HUGGINGFACE_API_KEY"); key != "" {
		cfg.LLM.HuggingFace.APIKey = key
	}
	if url := os.Getenv("OLLAMA_SERVER_URL"); url != "" {
		cfg.LLM.Ollama.BaseURL = url
	}
	if providers := os.Getenv("LLM_PROVIDERS"); providers != "" {
		cfg.LLM.Providers = splitList(providers)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logger.Level = level
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Logger.Env = env
	}
}

// Validate checks the values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	if c.LLM.ChunkSize <= 0 {
		return fmt.Errorf("llm.chunk_size must be positive")
	}
	if !c.LLM.MockMode && len(c.LLM.Providers) == 0 {
		return fmt.Errorf("llm.providers must list at least one provider unless mock mode is enabled")
	}
	for _, p := range c.LLM.Providers {
		if !knownProviders[p] {
			return fmt.Errorf("unknown LLM provider %q", p)
		}
	}
	return nil
}

var knownProviders = map[string]bool{
	"gemini":      true,
	"groq":        true,
	"openai":      true,
	"anthropic":   true,
	"ollama":      true,
	"huggingface": true,
	"mock":        true,
}

func splitList(s string) []string {
	return normalizeProviders(strings.Split(s, ","))
}

func normalizeProviders(in []string) []string {
	var out []string
	for _, part := range in {
		if p := strings.TrimSpace(strings.ToLower(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
