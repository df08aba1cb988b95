package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config is the runtime surface that cannot be a constant.
type Config struct {
	ExtractionAPIURL string
	RedisAddr        string
	RedisPassword    string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiKey     string
	GeminiModel   string
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Load() Config {
	return Config{
		ExtractionAPIURL: strings.TrimRight(getEnv("EXTRACTION_API_URL", DefaultExtractionAPIURL), "/"),
		RedisAddr:        getEnv("REDIS_ADDR", RedisAddr),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", DefaultOpenAIModel),
		GeminiKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", DefaultGeminiModel),
	}
}

// Validate checks the settings the web app needs.
func (c Config) Validate() []ValidationError {
	var errs []ValidationError
	if c.ExtractionAPIURL == "" {
		errs = append(errs, ValidationError{Field: "EXTRACTION_API_URL", Message: "extraction api url is required"})
	} else if u, err := url.Parse(c.ExtractionAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{Field: "EXTRACTION_API_URL", Message: "must be an absolute http(s) url"})
	}
	if c.OpenAIBaseURL != "" {
		if _, err := url.Parse(c.OpenAIBaseURL); err != nil {
			errs = append(errs, ValidationError{Field: "OPENAI_BASE_URL", Message: "invalid url"})
		}
	}
	return errs
}

// HasProvider reports whether the extraction backend can reach at least one model.
func (c Config) HasProvider() bool {
	return c.OpenAIKey != "" || c.GeminiKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(TRACE_ID_KEY).(string); ok {
		return v
	}
	return ""
}

func SessionID(ctx context.Context) string {
	if v, ok := ctx.Value(SESSION_ID_KEY).(string); ok {
		return v
	}
	return ""
}
