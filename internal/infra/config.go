package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents application configuration loaded from environment variables,
// optionally layered over a YAML file named by CODEGEN_CONFIG_FILE.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	LogLevel          string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterReferer string
	OpenRouterTitle   string
	Generation        GenerationConfig
	WorkerConcurrency int
	WorkerPoll        time.Duration
	ArtifactDir       string
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
}

// GenerationConfig tunes the code-generation pipeline.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxAttempts int     `yaml:"max_attempts"`
	FPS         int     `yaml:"fps"`
	ParseCheck  bool    `yaml:"parse_check"`
}

type fileConfig struct {
	Generation GenerationConfig `yaml:"generation"`
	Worker     struct {
		Concurrency int `yaml:"concurrency"`
		PollSeconds int `yaml:"poll_seconds"`
	} `yaml:"worker"`
	ArtifactDir string `yaml:"artifact_dir"`
}

func defaultGeneration() GenerationConfig {
	return GenerationConfig{
		Model:       "anthropic/claude-sonnet-4",
		Temperature: 0.3,
		MaxTokens:   12000,
		MaxAttempts: 3,
		FPS:         30,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	file := fileConfig{Generation: defaultGeneration()}
	file.Worker.Concurrency = 2
	file.Worker.PollSeconds = 2
	if path := strings.TrimSpace(os.Getenv("CODEGEN_CONFIG_FILE")); path != "" {
		if err := loadFileConfig(path, &file); err != nil {
			return nil, err
		}
	}

	gen := file.Generation
	gen.Model = getEnv("OPENROUTER_MODEL", gen.Model)
	gen.Temperature = getEnvFloat("CODEGEN_TEMPERATURE", gen.Temperature)
	gen.MaxTokens = getEnvInt("CODEGEN_MAX_TOKENS", gen.MaxTokens)
	gen.MaxAttempts = getEnvInt("CODEGEN_MAX_ATTEMPTS", gen.MaxAttempts)
	gen.FPS = getEnvInt("CODEGEN_FPS", gen.FPS)
	gen.ParseCheck = getEnvBool("CODEGEN_PARSE_CHECK", gen.ParseCheck)

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		OpenRouterAPIKey:  strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterReferer: os.Getenv("OPENROUTER_REFERER"),
		OpenRouterTitle:   getEnv("OPENROUTER_TITLE", "Video Composition Generator"),
		Generation:        gen,
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", file.Worker.Concurrency),
		WorkerPoll:        time.Second * time.Duration(getEnvInt("WORKER_POLL_SECONDS", file.Worker.PollSeconds)),
		ArtifactDir:       getEnv("ARTIFACT_DIR", file.ArtifactDir),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Generation.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got %d", cfg.Generation.MaxAttempts)
	}
	if cfg.Generation.FPS < 1 {
		return nil, fmt.Errorf("fps must be positive, got %d", cfg.Generation.FPS)
	}
	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 1
	}

	return cfg, nil
}

func loadFileConfig(path string, into *fileConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
