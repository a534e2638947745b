package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/redact"
)

const migrationsDir = "migrations"

// slogGooseLogger adapts goose's logging to the application's slog output.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "source", "goose")
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "source", "goose")
}

// runMigrations executes the given goose command against the configured
// database. Every log line of one invocation shares a correlation ID so a
// full migration run can be traced.
func runMigrations(cfg *config.Config, command, migrationName string) error {
	correlationID := uuid.New().String()
	log := slog.Default().With(
		"correlation_id", correlationID,
		"component", "migrations",
		"command", command,
	)

	dbURL := cfg.Database.URL
	if testURL := GetTestDatabaseURL(); testURL != "" {
		log.Info("Using test database URL override")
		dbURL = testURL
	}
	if dbURL == "" {
		return fmt.Errorf("database URL is empty: check your configuration")
	}

	log.Info("Starting migration operation", "url", redact.String(dbURL))
	startTime := time.Now()

	goose.SetLogger(&slogGooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "reset":
		err = goose.Reset(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	case "version":
		err = goose.Version(db, migrationsDir)
	case "create":
		if migrationName == "" {
			return fmt.Errorf("migration name is required for the create command")
		}
		err = goose.Create(db, migrationsDir, migrationName, "sql")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	log.Info("Migration operation completed",
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}
