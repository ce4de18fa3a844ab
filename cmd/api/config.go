// cmd/api/config.go
// Configuration is read from the environment (optionally seeded from a .env
// file), then command-line flags override it, then the result is validated.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/aoideee/books-api/internal/data"
	playvalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// serverConfig holds every setting the API needs at startup.
type serverConfig struct {
	Port         int    `envconfig:"PORT" default:"4000" validate:"min=1,max=65535"`
	Environment  string `envconfig:"APP_ENV" default:"development"`
	Debug        bool   `envconfig:"APP_DEBUG" default:"false"`
	Store        string `envconfig:"STORE_DRIVER" default:"postgres" validate:"oneof=postgres memory"`
	DefaultOwner string `envconfig:"DEFAULT_OWNER_ID" default:"262786f6-a6bf-4249-a709-4229be7c39f1" validate:"required,uuid4"`

	// Nested keys come from the field names: DB_HOST, DB_SSLMODE, RATE_LIMIT_RPS.
	DB data.DBConfig

	RateLimit struct {
		Enabled bool    `default:"true"`
		RPS     float64 `default:"2" validate:"gt=0"`
		Burst   int     `default:"4" validate:"min=1"`
	} `split_words:"true"`

	defaultOwner uuid.UUID
}

// loadConfig builds the configuration from the environment and the given
// command-line arguments (without the program name).
func loadConfig(args []string) (serverConfig, error) {
	var cfg serverConfig

	// Values already present in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}

	flags := flag.NewFlagSet("api", flag.ContinueOnError)
	flags.IntVar(&cfg.Port, "port", cfg.Port, "API server port")
	flags.StringVar(&cfg.Environment, "env", cfg.Environment, "Environment name reported by the health check")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Expose internal error details in responses")
	flags.StringVar(&cfg.Store, "store", cfg.Store, "Book store (postgres|memory)")
	flags.StringVar(&cfg.DB.DSN, "db-dsn", cfg.DB.DSN, "PostgreSQL DSN (overrides the DB_* parts)")
	flags.BoolVar(&cfg.DB.AutoMigrate, "db-migrate", cfg.DB.AutoMigrate, "Apply schema migrations at startup")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	if err := playvalidator.New(playvalidator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.defaultOwner = uuid.MustParse(cfg.DefaultOwner)
	return cfg, nil
}
