// Package migration creates the schema on startup so a fresh database
// is usable out of the box for local and self-hosted environments.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	authdomain "github.com/smallbiznis/devgate/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/devgate/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/devgate/internal/client/domain"
	invoicedomain "github.com/smallbiznis/devgate/internal/invoice/domain"
	projectdomain "github.com/smallbiznis/devgate/internal/project/domain"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// RunMigrations applies the embedded SQL migrations against postgres.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate builds the schema from the models. It covers the sqlite
// and mysql paths the SQL migrations do not.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authdomain.User{},
		&clientdomain.Client{},
		&projectdomain.Project{},
		&timeentrydomain.TimeEntry{},
		&catalogdomain.Service{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceEntry{},
		&invoicedomain.InvoiceService{},
	)
}
