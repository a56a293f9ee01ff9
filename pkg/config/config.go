// Package config provides environment-based configuration for the ocean
// voice workflows.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration, grouped by concern. Each binary validates
// only the sections it uses.
type Config struct {
	// Database configuration. Empty DSN selects the in-memory store.
	DatabaseDSN string

	// Log output
	LogLevel  string
	LogFormat string

	GenAI    GenAIConfig
	X        XConfig
	Facebook FacebookConfig
	Letters  LettersConfig
	Summary  SummaryConfig
	Daemon   DaemonConfig
}

// GenAIConfig holds Gemini generation-service configuration.
type GenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// XConfig holds OAuth 1.0a user-context credentials for the X API.
type XConfig struct {
	APIKey            string
	APIKeySecret      string
	AccessToken       string
	AccessTokenSecret string
}

// FacebookConfig holds Graph API publishing configuration.
type FacebookConfig struct {
	PageID      string
	AccessToken string
	GraphURL    string
}

// LettersConfig holds advocacy-letter generation configuration.
type LettersConfig struct {
	APIKey       string
	Model        string
	BaseURL      string
	OutputDir    string
	ProfilesPath string
	Pace         time.Duration
}

// SummaryConfig holds weekly summary configuration.
type SummaryConfig struct {
	WindowDays int
}

// DaemonConfig holds scheduler daemon configuration.
type DaemonConfig struct {
	Addr            string
	LettersSchedule string
	SummarySchedule string
	RunOnStart      bool
	ShutdownTimeout time.Duration
}

// Load reads configuration from a .env file (if present) and the
// environment. Missing publish or generation credentials are not load
// errors; they surface later as skipped deliveries.
func Load() (*Config, error) {
	// Absent .env is fine; the environment alone is a valid source.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		DatabaseDSN: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		GenAI: GenAIConfig{
			APIKey:  getEnv("GOOGLE_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Timeout: getDurationEnv("GENAI_TIMEOUT", 60*time.Second),
		},
		X: XConfig{
			APIKey:            getEnv("API_KEY", ""),
			APIKeySecret:      getEnv("API_KEY_SECRET", ""),
			AccessToken:       getEnv("ACCESS_TOKEN", ""),
			AccessTokenSecret: getEnv("ACCESS_TOKEN_SECRET", ""),
		},
		Facebook: FacebookConfig{
			PageID:      getEnv("PAGE_ID", ""),
			AccessToken: getEnv("PAGE_ACCESS_TOKEN", ""),
			GraphURL:    getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com"),
		},
		Letters: LettersConfig{
			APIKey:       getEnv("OPENROUTER_API_KEY", ""),
			Model:        getEnv("OPENROUTER_MODEL", "x-ai/grok-4-fast:free"),
			BaseURL:      getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			OutputDir:    getEnv("LETTERS_OUTPUT_DIR", "output"),
			ProfilesPath: getEnv("LETTERS_PROFILES", "config/organizations.yaml"),
			Pace:         getDurationEnv("LETTERS_PACE", time.Second),
		},
		Summary: SummaryConfig{
			WindowDays: getIntEnv("SUMMARY_WINDOW_DAYS", 7),
		},
		Daemon: DaemonConfig{
			Addr:            getEnv("OCEAND_ADDR", ":8090"),
			LettersSchedule: getEnv("LETTERS_SCHEDULE", "0 9 * * *"),
			SummarySchedule: getEnv("SUMMARY_SCHEDULE", "0 18 * * 0"),
			RunOnStart:      getBoolEnv("RUN_ON_START", true),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
	}

	return cfg, nil
}

// Validate checks generation-service configuration for the short-form
// pipelines.
func (c GenAIConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	return nil
}

// Validate checks letters-run configuration.
func (c LettersConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	return nil
}

// Validate checks summary configuration.
func (c SummaryConfig) Validate() error {
	if c.WindowDays <= 0 {
		return fmt.Errorf("SUMMARY_WINDOW_DAYS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
