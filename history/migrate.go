package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrateUp applies all pending schema migrations to the ledger.
// The migrations ship embedded in the binary, so the ledger can be created
// anywhere without a source checkout.
//
// migrate.ErrNoChange is handled gracefully (not an error condition).
//
// IMPORTANT: the migrator takes ownership of the connection and closes it
// when complete. Callers open a fresh connection for actual use afterwards.
func migrateUp(dbPath string) error {
	db, err := openConnection(DefaultConnectionConfig(dbPath))
	if err != nil {
		return err
	}

	m, err := newMigrator(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// SchemaVersion returns the current migration version and dirty state of the
// ledger at dbPath. Returns version=0 and dirty=false for a fresh database.
//
// The dirty flag indicates a migration failed partway through; if set,
// manual intervention may be required.
func SchemaVersion(dbPath string) (uint, bool, error) {
	db, err := openConnection(DefaultConnectionConfig(dbPath))
	if err != nil {
		return 0, false, err
	}

	m, err := newMigrator(db)
	if err != nil {
		db.Close()
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}

// newMigrator builds a migrate.Migrate instance over the embedded migrations.
//
// Note: the returned migrator takes ownership of the database connection.
// When migrator.Close() is called, the connection is also closed.
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{
		DatabaseName: "main",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "sqlite", driver)
}
