package main

import (
	"log/slog"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"roadtrip-planner/internal/adapters/repositories"
	"roadtrip-planner/internal/platform/db"
)

// dbtool initializes the Postgres schema so the server can start against a
// fresh database without DDL privileges at runtime.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		slog.Error("database open failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pg.Close()

	slog.Info("initializing database schema")
	if err := repositories.InitSchema(pg); err != nil {
		slog.Error("schema initialization failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("schema ready")
}
