// Command seed creates the administrator account and the default
// categories. It is safe to run repeatedly.
// Usage: go run ./cmd/seed [--migrate]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/pflag"

	"gdocs/db/migrations"
	"gdocs/internal/bootstrap"
	"gdocs/internal/config"
	"gdocs/internal/logger"
	"gdocs/internal/repository/sqlstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	applyMigrations := pflag.Bool("migrate", false, "apply pending migrations before seeding")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: "console", Component: "seed"})

	db, err := sqlstore.NewDB(&cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if *applyMigrations {
		m, err := migrations.New(db.DB, cfg.DB.Driver)
		if err != nil {
			return err
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Info().Msg("migrations applied")
	}

	res, err := bootstrap.Seed(context.Background(), sqlstore.NewUserRepo(db), sqlstore.NewCategoryRepo(db), cfg.Bootstrap, log)
	if err != nil {
		return err
	}
	log.Info().
		Bool("admin_created", res.AdminCreated).
		Int("categories_created", len(res.CategoriesCreated)).
		Msg("seed complete")
	return nil
}
