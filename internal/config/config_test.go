package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want :3000", cfg.ServerAddr)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
	if cfg.IsEmailEnabled() {
		t.Error("email should be disabled without SMTP config")
	}
	if !cfg.EmailNotifyOnLinkRequest {
		t.Error("link request notifications should default to on")
	}
	if cfg.ReminderMaxAge != 72*time.Hour {
		t.Errorf("ReminderMaxAge = %v, want 72h", cfg.ReminderMaxAge)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("REMINDER_MAX_AGE", "24h")

	cfg := Load()

	if cfg.IsDev() {
		t.Error("production env reported as dev")
	}
	if !cfg.IsEmailEnabled() {
		t.Error("email should be enabled with host and from set")
	}
	if cfg.SMTPPort != 465 {
		t.Errorf("SMTPPort = %d, want 465", cfg.SMTPPort)
	}
	if cfg.ReminderMaxAge != 24*time.Hour {
		t.Errorf("ReminderMaxAge = %v, want 24h", cfg.ReminderMaxAge)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
site:
  title: Family Vibes
notifications:
  link_request: false
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	ycfg, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}
	if ycfg == nil {
		t.Fatal("LoadYAMLConfig() returned nil for existing file")
	}

	cfg := Load()
	ycfg.Apply(cfg)

	if cfg.SiteTitle != "Family Vibes" {
		t.Errorf("SiteTitle = %q, want Family Vibes", cfg.SiteTitle)
	}
	if cfg.EmailNotifyOnLinkRequest {
		t.Error("link request toggle should be overridden to false")
	}
	if !cfg.EmailNotifyOnRating {
		t.Error("untouched toggle should keep its default")
	}
}

func TestLoadYAMLConfig_Missing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	ycfg, err := LoadYAMLConfig()
	if err != nil {
		t.Fatalf("LoadYAMLConfig() error = %v", err)
	}
	if ycfg != nil {
		t.Error("missing config file should yield nil config")
	}
}
