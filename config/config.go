// Package config loads chatbot configuration from the process environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable not set")

const (
	defaultModel       = "gpt-4o-mini"
	defaultMaxTokens   = 1000
	defaultTemperature = 0.7
	defaultMemoryFile  = "data/user_memory.json"

	// requestTimeout bounds a single completion call end to end.
	requestTimeout = 30 * time.Second
)

// Config is an immutable snapshot of the chatbot settings, read once at
// startup. Numeric values that fail to parse fall back to their defaults.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration

	// MemoryFile is the JSON file holding cross-session user memory.
	MemoryFile string
	// ArchiveFile is the SQLite turn archive; empty disables archiving.
	ArchiveFile string
}

// Load reads configuration from the environment, loading a .env file first
// when one exists.
func Load() *Config {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	return &Config{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		BaseURL:     os.Getenv("OPENAI_BASE_URL"),
		Model:       getEnv("OPENAI_MODEL", defaultModel),
		MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", defaultMaxTokens),
		Temperature: getEnvFloat("OPENAI_TEMPERATURE", defaultTemperature),
		Timeout:     requestTimeout,
		MemoryFile:  getEnv("CHATBOT_MEMORY_FILE", defaultMemoryFile),
		ArchiveFile: os.Getenv("CHATBOT_ARCHIVE_DB"),
	}
}

// Validate reports whether the required credential is present. Callers must
// treat a non-nil error as fatal before any interaction starts.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}
