// Package db opens the remote Postgres connection and applies the embedded
// schema migrations.
package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations exposes the SQL migrations, rooted at the migrations directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

type Options struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Connect configures a pgx-backed pool without dialing. Connections are made
// on first use, so the database may come up after the process.
func Connect(dsn string, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

// Open connects with the pgx driver and verifies the connection.
func Open(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	db, err := Connect(dsn, opts)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// RunMigrations applies every pending migration and returns how many ran.
func RunMigrations(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (int, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db.DB, Migrations())
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		logger.Info("migration applied",
			zap.Int64("version", r.Source.Version),
			zap.Duration("duration", r.Duration),
		)
	}
	return len(results), nil
}
