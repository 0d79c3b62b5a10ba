package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"
)

type Config struct {
	// DatabaseURL switches meals, profiles and credentials to Postgres.
	DatabaseURL string

	AIProvider    string
	AIProxyURL    string
	AIProxyKey    string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	JWTSecret string

	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string

	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load reads .env files (missing ones are skipped) and then the process
// environment. Variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	for _, path := range envFiles {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	cfg := Config{
		DatabaseURL:     GetEnv("MEALWISE_DATABASE_URL", ""),
		AIProvider:      strings.ToLower(GetEnv("MEALWISE_AI_PROVIDER", AIProviderGemini)),
		AIProxyURL:      GetEnv("MEALWISE_AI_PROXY_URL", ""),
		AIProxyKey:      GetEnv("MEALWISE_AI_PROXY_KEY", ""),
		OpenAIKey:       GetEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     GetEnv("MEALWISE_OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:   GetEnv("MEALWISE_OPENAI_BASE_URL", ""),
		JWTSecret:       GetEnv("MEALWISE_JWT_SECRET", ""),
		S3Bucket:        GetEnv("S3_BUCKET", ""),
		S3Region:        GetEnv("S3_REGION", GetEnv("AWS_REGION", "")),
		S3PublicBaseURL: GetEnv("S3_PUBLIC_BASE_URL", GetEnv("CLOUDFRONT_URL", "")),
		LogLevel:        GetEnv("MEALWISE_LOG_LEVEL", "warn"),
		LogFormat:       GetEnv("MEALWISE_LOG_FORMAT", "text"),
		LogOutput:       GetEnv("MEALWISE_LOG_OUTPUT", "stderr"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.AIProvider {
	case AIProviderGemini, AIProviderOpenAI:
	default:
		return fmt.Errorf("invalid MEALWISE_AI_PROVIDER %q (expected %s or %s)", c.AIProvider, AIProviderGemini, AIProviderOpenAI)
	}
	if c.S3Bucket != "" && c.S3Region == "" {
		return fmt.Errorf("S3_REGION or AWS_REGION is required when S3_BUCKET is set")
	}
	return nil
}

func (c Config) CloudStore() bool {
	return c.DatabaseURL != ""
}

func (c Config) ImageUploadEnabled() bool {
	return c.S3Bucket != ""
}

// GetEnv returns the value of key, or fallback when unset or blank.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
