// Command seed loads a demo catalogue into the books database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aoideee/books-api/internal/data"
	playvalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq"
)

type seedConfig struct {
	DB           data.DBConfig
	Owner        string        `envconfig:"DEFAULT_OWNER_ID" default:"262786f6-a6bf-4249-a709-4229be7c39f1"`
	Timeout      time.Duration `envconfig:"SEED_TIMEOUT" default:"1m"`
	Force        bool          `ignored:"true"`
	Workers      int           `ignored:"true"`
	defaultOwner uuid.UUID
}

// seedResult summarises one seed run.
type seedResult struct {
	Skipped  bool
	Existing int
	Inserted int
	Failed   int
	Total    int
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadSeedConfig(os.Args[1:])
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if cfg.DB.IsNeon() {
		logger.Info("neon host detected", "host", cfg.DB.Host)
	}

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if _, err := data.Migrate(ctx, db); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	res, err := seed(ctx, data.NewModels(db).Books, cfg, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	if res.Skipped {
		logger.Warn("books already present; rerun with -force to add the demo catalogue anyway", "existing", res.Existing)
		return
	}
	logger.Info("seed completed", "inserted", res.Inserted, "failed", res.Failed, "total", res.Total)
}

func loadSeedConfig(args []string) (seedConfig, error) {
	var cfg seedConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}

	flags := flag.NewFlagSet("seed", flag.ContinueOnError)
	flags.StringVar(&cfg.DB.DSN, "db-dsn", cfg.DB.DSN, "PostgreSQL DSN (overrides the DB_* parts)")
	flags.BoolVar(&cfg.Force, "force", false, "Insert even when books already exist")
	flags.IntVar(&cfg.Workers, "workers", 4, "Concurrent inserts")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if err := playvalidator.New().Struct(cfg.DB); err != nil {
		return cfg, fmt.Errorf("invalid database configuration: %w", err)
	}
	cfg.Workers = max(1, cfg.Workers)

	owner, err := uuid.Parse(cfg.Owner)
	if err != nil || owner == uuid.Nil {
		return cfg, fmt.Errorf("invalid DEFAULT_OWNER_ID %q", cfg.Owner)
	}
	cfg.defaultOwner = owner
	return cfg, nil
}

// seed inserts demoBooks into store unless active books already exist and
// cfg.Force is off. A failed insert is logged and does not stop the run.
func seed(ctx context.Context, store data.BookStore, cfg seedConfig, logger *slog.Logger) (seedResult, error) {
	var res seedResult

	existing, err := store.Count(ctx)
	if err != nil {
		return res, err
	}
	res.Existing = existing
	if existing > 0 && !cfg.Force {
		res.Skipped = true
		return res, nil
	}

	var inserted, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))

	for _, book := range demoBooks {
		book.OwnerID = cfg.defaultOwner
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := store.Insert(gctx, book); err != nil {
				failed.Add(1)
				logger.Error("insert failed", "name", book.Name, "error", err)
				return nil
			}
			inserted.Add(1)
			logger.Info("inserted", "name", book.Name, "author", book.Author)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	res.Inserted = int(inserted.Load())
	res.Failed = int(failed.Load())

	res.Total, err = store.Count(ctx)
	return res, err
}
