package config

import (
	"testing"
	"time"
)

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when BOT_TOKEN is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "./data/shiftbot.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
	if cfg.HealthPort != "8080" {
		t.Errorf("HealthPort = %q, want 8080", cfg.HealthPort)
	}
	if cfg.PollTimeout != 30 {
		t.Errorf("PollTimeout = %d, want 30", cfg.PollTimeout)
	}
	if cfg.SelectionTTL != 30*time.Minute {
		t.Errorf("SelectionTTL = %v, want 30m", cfg.SelectionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("POLL_TIMEOUT", "5")
	t.Setenv("HEALTH_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want /tmp/test.db", cfg.DBPath)
	}
	if cfg.PollTimeout != 5 {
		t.Errorf("PollTimeout = %d, want 5", cfg.PollTimeout)
	}
	if cfg.HealthPort != "9090" {
		t.Errorf("HealthPort = %q, want 9090", cfg.HealthPort)
	}
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("POLL_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PollTimeout != 30 {
		t.Errorf("PollTimeout = %d, want fallback 30", cfg.PollTimeout)
	}
}
