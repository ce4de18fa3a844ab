// Package main is the entry point for the books API server.
// It wires together configuration, the book store, and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/aoideee/books-api/internal/data"

	_ "github.com/lib/pq" // Register the PostgreSQL driver with database/sql.
)

// appVersion is the current version of the API, reported by / and /health.
const appVersion = "1.0.0"

// basePath prefixes every versioned endpoint.
const basePath = "/api/v1"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config serverConfig
	logger *slog.Logger
	models data.Models
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	logger := newLogger(cfg)

	models, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer closeStore()

	app := &applicationDependencies{
		config: cfg,
		logger: logger,
		models: models,
	}

	if err := app.serve(); err != nil {
		logger.Error(err.Error())
		closeStore()
		os.Exit(1)
	}
}

// newLogger returns a text logger for local work and a JSON logger for
// production. Debug mode lowers the level so store-level detail is visible.
func newLogger(cfg serverConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("version", appVersion)
}

// openStore builds the models for the configured store driver. The returned
// function releases the underlying resources and is safe to call twice.
func openStore(cfg serverConfig, logger *slog.Logger) (data.Models, func(), error) {
	if cfg.Store == "memory" {
		models, err := data.NewMemoryModels()
		if err != nil {
			return data.Models{}, nil, err
		}
		logger.Warn("using in-memory book store; data will not survive a restart")
		return models, func() {}, nil
	}

	if cfg.DB.IsNeon() {
		logger.Info("neon host detected", "host", cfg.DB.Host)
	}

	db, err := openDB(cfg)
	if err != nil {
		return data.Models{}, nil, fmt.Errorf("database connection failed: %w", err)
	}
	logger.Info("database connection pool established")

	if cfg.DB.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.Timeout())
		version, err := data.Migrate(ctx, db)
		cancel()
		if err != nil {
			db.Close()
			return data.Models{}, nil, err
		}
		logger.Info("database schema up to date", "schema_version", version)
	}

	return data.NewModels(db), func() { db.Close() }, nil
}

// openDB opens a PostgreSQL connection pool using the configured DSN and
// pool limits, then pings the database to confirm it is reachable within
// the connect timeout.
func openDB(cfg serverConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.DB.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.Timeout())
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
