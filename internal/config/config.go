package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	API      APIConfig
	Session  SessionConfig
	Reminder ReminderConfig
	LogLevel string
}

// APIConfig holds settings for the loan platform API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds settings for the persisted session
type SessionConfig struct {
	TokenStorePath string
}

// ReminderConfig holds settings for due-date reminders
type ReminderConfig struct {
	Schedule   string // cron spec, e.g. "@daily" or "0 8 * * *"
	WindowDays int    // how close to the end date a loan must be to warrant a reminder
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	timeoutSecs, _ := strconv.Atoi(getEnv("FINLOANS_API_TIMEOUT_SECONDS", "10"))
	windowDays, _ := strconv.Atoi(getEnv("FINLOANS_REMINDER_WINDOW_DAYS", "7"))

	config := &Config{
		AppMode: appMode,
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("FINLOANS_API_URL", "http://localhost:8000"), "/"),
			Timeout: time.Duration(timeoutSecs) * time.Second,
		},
		Session: SessionConfig{
			TokenStorePath: getEnv("FINLOANS_TOKEN_STORE", defaultTokenStorePath()),
		},
		Reminder: ReminderConfig{
			Schedule:   getEnv("FINLOANS_REMINDER_SCHEDULE", "@daily"),
			WindowDays: windowDays,
		},
		LogLevel: getEnv("LOG_LEVEL", defaultLogLevel(appMode)),
	}

	// Set global config
	AppConfig = config

	return config, nil
}

// defaultTokenStorePath places the session file under the user config dir
func defaultTokenStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "finloans", "session.json")
}

func defaultLogLevel(mode string) string {
	if mode == "dev" {
		return "debug"
	}
	return "info"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}
