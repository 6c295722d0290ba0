package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestValidateEnv(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	oldWd, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(oldWd)

	t.Setenv("PORT", "8080")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("QJOB_API_SECRET", "")

	cfg, err := ValidateEnv(logger)
	if err != nil {
		t.Fatalf("ValidateEnv failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.AuthEnabled() {
		t.Errorf("unexpected config %+v", cfg)
	}

	t.Setenv("QJOB_API_SECRET", "too-short")
	if _, err := ValidateEnv(logger); err == nil {
		t.Error("expected error for short secret")
	}

	t.Setenv("QJOB_API_SECRET", "")
	t.Setenv("ENVIRONMENT", "production")
	if _, err := ValidateEnv(logger); err == nil {
		t.Error("expected error for missing secret in production")
	}
}

func TestValidateEnv_DotEnv(t *testing.T) {
	oldWd, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(oldWd)

	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	os.WriteFile(".env", []byte("PORT=9999\n"), 0644)
	t.Cleanup(func() { os.Unsetenv("PORT") })

	cfg, err := ValidateEnv(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("ValidateEnv failed: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("expected port from .env, got %s", cfg.Port)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret(""); got != "<not set>" {
		t.Errorf("unexpected %q", got)
	}
	if got := MaskSecret("abc"); got != "***" {
		t.Errorf("unexpected %q", got)
	}
	if got := MaskSecret(strings.Repeat("a", 10) + "wxyz"); got != "aaaa...wxyz" {
		t.Errorf("unexpected %q", got)
	}
}
