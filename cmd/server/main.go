// Package main implements the entry point for the task management API
// server: configuration loading, logging, database setup, migrations and
// the HTTP serving lifecycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command instead of serving: up, down, status, reset, version or create")
	migrationName := flag.String("migration-name", "",
		"name for the new migration file (with -migrate create)")
	flag.Parse()

	if err := run(*migrateCmd, *migrationName); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, prepares shared dependencies and either
// executes a migration command or starts the HTTP server.
func run(migrateCmd, migrationName string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	if migrateCmd != "" {
		if err := runMigrations(cfg, migrateCmd, migrationName); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		// the server never started, close the connection here
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("Error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// GetTestDatabaseURL returns the database URL override used by
// integration tooling, or an empty string when unset.
func GetTestDatabaseURL() string {
	return os.Getenv("TASKS_TEST_DATABASE_URL")
}
