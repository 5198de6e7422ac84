package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"food-rescue-api/internal/handler/middleware"
	"food-rescue-api/internal/infra/db"
	"food-rescue-api/internal/infra/migrate"
	"food-rescue-api/internal/pkg/config"
)

func main() {
	ctx := context.Background()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version")
	version := flag.String("version", "", "target version for -cmd=version")
	flag.Parse()

	cfg, err := config.LoadConfig()
	requireResource("config", err)

	logger := middleware.NewLogger(cfg.Log).GetSlogLogger().With("cmd", *cmd)

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	requireResource("database", err)
	defer cleanup()

	sqlDB := migrate.OpenDB(pool)
	defer sqlDB.Close()

	logger.Info("migrate ready")

	switch *cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, sqlDB, *cmd)
	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for version command")
			os.Exit(1)
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, *version)
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migration finished")
}

func requireResource(resource string, err error) {
	if err == nil {
		return
	}
	slog.Error(fmt.Sprintf("resource not working: %s", resource), "error", err)
	os.Exit(1)
}
