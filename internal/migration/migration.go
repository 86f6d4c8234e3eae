// Package migration creates the schema on startup so a fresh checkout
// is usable without any manual database setup.
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
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	sessiondomain "github.com/smallbiznis/paydocs/internal/session/domain"
	ytddomain "github.com/smallbiznis/paydocs/internal/ytd/domain"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// Run applies the embedded SQL migrations on postgres. Other dialects
// get the gorm auto-migration, which is enough for local and test use.
func Run(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	if db.Dialector.Name() != "postgres" {
		return autoMigrate(db)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return runPostgres(sqlDB)
}

func runPostgres(db *sql.DB) error {
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
	// Do not close the migrator; it would close the shared *sql.DB.

	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ytddomain.YtdTotals{},
		&documentdomain.GeneratedDocument{},
		&sessiondomain.GenerationSession{},
		&orderdomain.Order{},
		&orderdomain.OrderDocument{},
		&orderdomain.PaymentEventRecord{},
	)
}
