package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"bookshare/internal/platform/database"
	"bookshare/internal/platform/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if *command == "create" {
		if *name == "" {
			log.Fatal().Msg("name is required for 'create' command")
		}
		if err := database.CreateMigration(cfg.MigrationsDir, *name); err != nil {
			log.Fatal().Err(err).Msg("create migration")
		}
		log.Info().Str("name", *name).Msg("migration created")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	db := database.SQLDB(pool)
	defer db.Close()

	if err := runCommand(ctx, *command, func(ctx context.Context, cmd string) error {
		switch cmd {
		case "up":
			return database.MigrateUp(ctx, db, cfg.MigrationsDir)
		case "down":
			return database.MigrateDown(ctx, db, cfg.MigrationsDir)
		default:
			return database.MigrationStatus(ctx, db, cfg.MigrationsDir)
		}
	}); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	log.Info().Str("command", *command).Str("dir", cfg.MigrationsDir).Msg("migration command finished")
}

func runCommand(ctx context.Context, command string, exec func(context.Context, string) error) error {
	switch command {
	case "up", "down", "status":
		return exec(ctx, command)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}
}
