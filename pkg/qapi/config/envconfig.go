package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/quatton/qjob/pkg/qauth"
)

// EnvConfig is the server process environment. Lookup settings come from the qjob config file.
type EnvConfig struct {
	Port        string `envconfig:"PORT" default:"3000"`
	APISecret   string `envconfig:"QJOB_API_SECRET"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func (c *EnvConfig) IsDev() bool {
	return c.Environment == "development"
}

// AuthEnabled reports whether job routes require a bearer token.
func (c *EnvConfig) AuthEnabled() bool {
	return c.APISecret != ""
}

// ValidateEnv loads .env (development only) and the process environment.
func ValidateEnv(logger *slog.Logger) (*EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.IsDev() {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found")
		} else {
			logger.Info("loaded .env file")
			if err := envconfig.Process("", &cfg); err != nil {
				return nil, fmt.Errorf("failed to load environment variables: %w", err)
			}
		}
	}

	var errors []string

	if cfg.AuthEnabled() && len(cfg.APISecret) < qauth.MinSecretLength {
		errors = append(errors, fmt.Sprintf("  QJOB_API_SECRET must be at least %d characters", qauth.MinSecretLength))
	}
	if !cfg.AuthEnabled() && !cfg.IsDev() {
		errors = append(errors, "  QJOB_API_SECRET is required outside development")
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("environment validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return &cfg, nil
}

func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func (c *EnvConfig) Print(logger *slog.Logger) {
	logger.Info("server configuration",
		"environment", c.Environment,
		"port", c.Port,
		"api_secret", MaskSecret(c.APISecret),
	)
}
