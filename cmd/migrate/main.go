package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/quatton/qjob/pkg/db"
	"github.com/quatton/qjob/pkg/qlog"
)

// migrate applies the export schema using DB_* variables (or a .env file), for deployments
// that run migrations without a qjob config file.
func main() {
	logger := qlog.NewLogger(slog.LevelInfo, os.Stderr, qlog.DefaultStyle())

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found")
	} else {
		logger.Info("loaded .env file")
	}

	ctx := context.Background()

	cfg := db.Config{
		Host:     "localhost",
		Port:     5432,
		User:     "qjob",
		Password: "password",
		Database: "qjob",
		SSLMode:  "disable",
	}

	if err := envconfig.Process("DB", &cfg); err != nil {
		logger.Fatalf("failed to process env vars: %v", err)
	}

	database, err := db.New(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	logger.Info("running migrations")
	if err := db.Migrate(ctx, database, logger.Logger); err != nil {
		logger.Fatalf("failed to migrate: %v", err)
	}
	logger.Info("migrations completed")
}
