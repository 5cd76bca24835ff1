// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/parse"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	SessionTTL  time.Duration
	EventPolicy parse.EventPolicy

	// Optional spreadsheet exports imported into the lookup store at
	// startup. Empty means the database is already populated.
	FaultCodesCSV string
	EventsCSV     string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	policy, err := parse.ParseEventPolicy(getEnv("EVENT_PARSE_POLICY", string(parse.EventPolicyLenient)))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ttlMinutes := getEnvInt("SESSION_TTL_MINUTES", 60)
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		FrontendURL:   getEnv("FRONTEND_URL", ""),
		DBPath:        getEnv("DB_PATH", "./data/catbot.db"),
		SessionTTL:    time.Duration(ttlMinutes) * time.Minute,
		EventPolicy:   policy,
		FaultCodesCSV: getEnv("FAULT_CODES_CSV", ""),
		EventsCSV:     getEnv("EVENTS_CSV", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
