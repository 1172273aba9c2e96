// Package editor wires configuration and startup for the editor service.
package editor

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/fotom-studio/fotom/internal/platform/cmd"
	"github.com/fotom-studio/fotom/internal/services/editor/app"
)

const defaultHTTPAddr = "localhost:8090"

// Config holds the editor command configuration.
type Config struct {
	HTTPAddr    string `env:"FOTOM_EDITOR_HTTP_ADDR"`
	DBPath      string `env:"FOTOM_EDITOR_DB_PATH"`
	JWTSecret   string `env:"FOTOM_EDITOR_JWT_SECRET"`
	SeedCatalog bool   `env:"FOTOM_EDITOR_SEED_CATALOG"`
}

// ParseConfig resolves configuration from defaults, environment and flags,
// in that order of increasing precedence.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		HTTPAddr:    defaultHTTPAddr,
		DBPath:      filepath.Join("data", "editor.db"),
		SeedCatalog: true,
	}
	if err := cmd.ParseConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database file path")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Access token signing secret")
	fs.BoolVar(&cfg.SeedCatalog, "seed-catalog", cfg.SeedCatalog, "Seed the bundled template catalog at startup")
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Run starts the editor server and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := app.New(app.Config{
		Addr:        cfg.HTTPAddr,
		DBPath:      cfg.DBPath,
		JWTSecret:   cfg.JWTSecret,
		SeedCatalog: cfg.SeedCatalog,
	})
	if err != nil {
		return fmt.Errorf("init editor server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve editor: %w", err)
	}
	return nil
}
