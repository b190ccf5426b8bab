package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "")
	t.Setenv("FINLOANS_API_URL", "")
	t.Setenv("FINLOANS_API_TIMEOUT_SECONDS", "")
	t.Setenv("FINLOANS_REMINDER_SCHEDULE", "")
	t.Setenv("FINLOANS_REMINDER_WINDOW_DAYS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppMode)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "@daily", cfg.Reminder.Schedule)
	assert.Equal(t, 7, cfg.Reminder.WindowDays)
	assert.Equal(t, "debug", cfg.LogLevel, "dev mode defaults to debug logging")
	assert.NotEmpty(t, cfg.Session.TokenStorePath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("FINLOANS_API_URL", "https://api.finloans.example/")
	t.Setenv("FINLOANS_API_TIMEOUT_SECONDS", "30")
	t.Setenv("FINLOANS_TOKEN_STORE", "/tmp/finloans-session.json")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "https://api.finloans.example", cfg.API.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/finloans-session.json", cfg.Session.TokenStorePath)
	assert.Equal(t, "info", cfg.LogLevel, "prod mode defaults to info logging")
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")
	_, err := Load()
	assert.Error(t, err)
}
