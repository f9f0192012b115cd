package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Port        int
	DatabaseURL string
	LogLevel    string

	AIProvider      string
	AITimeout       time.Duration
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	WhisperModel    string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	Language        string

	WeatherAPIKey   string
	WeatherURL      string
	DefaultLocation string

	NatsURL   string
	NatsToken string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

func Load() Config {
	return Config{
		Port:        envInt("EXEAI_PORT", 8080),
		DatabaseURL: envStr("DATABASE_URL", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),

		AIProvider:      envStr("AI_PROVIDER", ProviderOpenAI),
		AITimeout:       time.Duration(envInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   envStr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     envStr("OPENAI_MODEL", "gpt-4"),
		WhisperModel:    envStr("WHISPER_MODEL", "whisper-1"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		GeminiModel:     envStr("GEMINI_MODEL", "gemini-2.5-flash"),
		Language:        envStr("TRANSCRIBE_LANGUAGE", "en"),

		WeatherAPIKey:   envStr("OPENWEATHER_API_KEY", ""),
		WeatherURL:      envStr("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5/weather"),
		DefaultLocation: envStr("DEFAULT_LOCATION", "Bengaluru"),

		NatsURL:   envStr("NATS_URL", ""),
		NatsToken: envStr("NATS_TOKEN", ""),

		S3Bucket:    envStr("S3_BUCKET", ""),
		S3Region:    envStr("S3_REGION", "us-east-1"),
		S3Endpoint:  envStr("S3_ENDPOINT", ""),
		S3AccessKey: envStr("S3_ACCESS_KEY", ""),
		S3SecretKey: envStr("S3_SECRET_KEY", ""),
		S3PublicURL: envStr("S3_PUBLIC_URL", ""),
	}
}

// Validate reports the first missing or inconsistent setting. The weather key
// is not checked; the weather route reports its absence per request.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	// Transcription always goes through OpenAI, whatever the completion provider.
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	switch c.AIProvider {
	case ProviderOpenAI:
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required when AI_PROVIDER=anthropic")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}
	if c.AITimeout <= 0 {
		return errors.New("AI_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// S3Enabled reports whether audio uploads should go to object storage.
func (c Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
