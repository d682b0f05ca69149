// Command bulkimport registers the documents listed in a spreadsheet
// manifest, acting as an existing user.
// Usage: go run ./cmd/bulkimport --file manifest.xlsx [--as admin]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"gdocs/internal/app"
	"gdocs/internal/config"
	"gdocs/internal/domain"
	"gdocs/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	path := pflag.StringP("file", "f", "", "path to the .xlsx manifest")
	actor := pflag.String("as", "admin", "username the documents are registered under")
	pflag.Parse()
	if *path == "" {
		pflag.Usage()
		return fmt.Errorf("--file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: "console", Component: "bulkimport"})

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	user, err := a.Repos.Users.GetByUsername(ctx, *actor)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", *actor, err)
	}
	settings, err := a.Services.Notifications.SettingsFor(ctx, user.ID)
	if err != nil {
		return err
	}
	sess := domain.NewSession(user, settings)

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	results, err := a.Services.Documents.Import(ctx, sess, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			log.Warn().Str("source", r.Source).Str("error", r.Error).Msg("row rejected")
			continue
		}
		log.Info().Str("source", r.Source).Str("document_id", r.Document.ID).Msg("row imported")
	}
	log.Info().Int("imported", len(results)-failed).Int("failed", failed).Msg("import complete")
	if failed > 0 {
		return fmt.Errorf("%d of %d rows failed", failed, len(results))
	}
	return nil
}
