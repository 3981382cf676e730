// Package database opens the Postgres pool and applies goose migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// SQLDB exposes pool through database/sql for tools that need it, like goose.
func SQLDB(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}

func init() {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		panic(err)
	}
}

// MigrateUp applies every pending migration in dir.
func MigrateUp(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// MigrateDown rolls back the latest migration in dir.
func MigrateDown(ctx context.Context, db *sql.DB, dir string) error {
	return goose.DownContext(ctx, db, dir)
}

// MigrationStatus logs the state of every migration in dir.
func MigrationStatus(ctx context.Context, db *sql.DB, dir string) error {
	return goose.StatusContext(ctx, db, dir)
}

// CreateMigration writes a new empty SQL migration named name into dir.
func CreateMigration(dir, name string) error {
	return goose.Create(nil, dir, name, "sql")
}
