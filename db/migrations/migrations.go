// Package migrations embeds the schema for both supported SQL dialects and
// builds golang-migrate instances over an open connection.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// New returns a migrator for db. driver is the database/sql driver name
// ("pgx" or "sqlite3"). Closing the migrator closes db.
func New(db *sql.DB, driver string) (*migrate.Migrate, error) {
	var (
		dir      string
		name     string
		instance database.Driver
		err      error
	)
	switch driver {
	case "pgx":
		dir, name = "postgres", "pgx5"
		instance, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	case "sqlite3":
		dir, name = "sqlite", "sqlite3"
		instance, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("migrations: opening %s driver: %w", driver, err)
	}

	src, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: loading %s sources: %w", dir, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, instance)
	if err != nil {
		return nil, fmt.Errorf("migrations: creating migrator: %w", err)
	}
	return m, nil
}
