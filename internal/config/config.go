// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	BotToken    string
	DBPath      string
	HealthPort  string
	PollTimeout int // long-poll timeout in seconds
	// SelectionTTL bounds how long an abandoned report-picker flow is
	// kept in memory before the sweeper discards it.
	SelectionTTL time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:     getEnv("BOT_TOKEN", ""),
		DBPath:       getEnv("DB_PATH", "./data/shiftbot.db"),
		HealthPort:   getEnv("HEALTH_PORT", "8080"),
		PollTimeout:  getEnvInt("POLL_TIMEOUT", 30),
		SelectionTTL: 30 * time.Minute,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN must be set")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.HealthPort == "" {
		return fmt.Errorf("HEALTH_PORT cannot be empty")
	}
	if c.PollTimeout <= 0 {
		return fmt.Errorf("POLL_TIMEOUT must be > 0")
	}
	return nil
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
