package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wabot/internal/config"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_WHATSAPP_ADMIN_JID", "628999@s.whatsapp.net")
	t.Setenv("BOT_GEMINI_API_KEY", "test-key")
}

func TestLoadFromEnvOnly(t *testing.T) {
	validEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with env-only config failed: %v", err)
	}

	if cfg.WhatsApp.AdminJID != "628999@s.whatsapp.net" {
		t.Errorf("AdminJID = %q, want env value", cfg.WhatsApp.AdminJID)
	}
	if cfg.Log.Level != config.DefaultLogLevel {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, config.DefaultLogLevel)
	}
	if cfg.RateLimit.Window != config.DefaultRateLimitWindow {
		t.Errorf("RateLimit.Window = %v, want default %v", cfg.RateLimit.Window, config.DefaultRateLimitWindow)
	}
	if cfg.Messages.Welcome == "" {
		t.Error("expected default welcome message")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	validEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "log:\n  level: debug\nratelimit:\n  window: 30s\n  max: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("RateLimit.Window = %v, want 30s", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.Max != 5 {
		t.Errorf("RateLimit.Max = %d, want 5", cfg.RateLimit.Max)
	}
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	t.Setenv("BOT_WHATSAPP_ADMIN_JID", "")
	t.Setenv("BOT_GEMINI_API_KEY", "test-key")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected validation error without admin JID")
	}
	if !strings.Contains(err.Error(), "validation") {
		t.Errorf("expected a validation error, got: %v", err)
	}
}

func TestLoadRejectsInvalidAllowMode(t *testing.T) {
	validEnv(t)
	t.Setenv("BOT_WHATSAPP_ALLOW_MODE", "everyone")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected validation error for unknown allow mode")
	}
	if !strings.Contains(err.Error(), "validation") {
		t.Errorf("expected a validation error, got: %v", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	validEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log: [unclosed"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}
