// Package config loads configuration from environment variables and sets up
// logging for the Text Decoder core.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Analysis provider names.
const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// Record store
	DataDir string

	// Analysis provider
	LLMProvider     string
	LLMModel        string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	AnalysisTimeout time.Duration

	// Input limits
	MaxInputChars int

	// Behavior library override (empty = embedded default)
	BehaviorLibrary string

	// Profile retention default for new non-self profiles
	RetentionMonths int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		DataDir: getEnv("TEXTDECODER_DATA_DIR", defaultDataDir()),

		LLMProvider:     getEnv("TEXTDECODER_LLM_PROVIDER", ProviderGoogleAI),
		LLMModel:        getEnv("TEXTDECODER_LLM_MODEL", "gemini-1.5-pro"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		AnalysisTimeout: getDuration("TEXTDECODER_ANALYSIS_TIMEOUT", 90*time.Second),

		MaxInputChars: getInt("TEXTDECODER_MAX_INPUT_CHARS", 50000),

		BehaviorLibrary: os.Getenv("TEXTDECODER_BEHAVIOR_LIBRARY"),

		RetentionMonths: getInt("TEXTDECODER_RETENTION_MONTHS", 12),

		LogFile:  getEnv("TEXTDECODER_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("TEXTDECODER_LOG_LEVEL", "INFO")),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".textdecoder"
	}
	return filepath.Join(home, ".textdecoder")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
