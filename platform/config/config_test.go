package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadAppliesDevelopmentDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/chanitec")
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("FRONTEND_URL", "https://app.example.com")

	// An empty DB_MAX_CONNS parses to zero and must be rejected rather than defaulted.
	if _, err := Load(); err == nil {
		t.Fatal("expected error for empty DB_MAX_CONNS")
	}

	t.Setenv("DB_MAX_CONNS", "5")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetDBMaxConns() != 5 {
		t.Fatalf("expected 5 max conns, got %d", cfg.GetDBMaxConns())
	}
	if cfg.GetDBStatementTimeout() != 30*time.Second {
		t.Fatalf("expected 30s statement timeout, got %s", cfg.GetDBStatementTimeout())
	}
	if got := len(cfg.GetCORSOrigins()); got != 3 {
		t.Fatalf("expected 3 origins, got %d", got)
	}
	if cfg.GetCORSAllowAll() {
		t.Fatal("expected explicit origins not to allow all")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/chanitec")
	t.Setenv("DB_MAX_CONNS", "3")
	t.Setenv("ALLOWED_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origin with credentials")
	}
}

func TestSMTPEnabledNeedsHostSenderAndRecipient(t *testing.T) {
	cfg := &Config{SMTPHost: "smtp.example.com", SMTPFromEmail: "noreply@example.com"}
	if cfg.IsSMTPEnabled() {
		t.Fatal("expected SMTP disabled without reminder recipient")
	}
	cfg.ReminderEmailTo = "sales@example.com"
	if !cfg.IsSMTPEnabled() {
		t.Fatal("expected SMTP enabled")
	}
}
