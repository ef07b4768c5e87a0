package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// ErrInvalidSteps is returned when a rollback asks for fewer than one step.
var ErrInvalidSteps = errors.New("rollback steps must be at least 1")

// Migrator applies the ledger schema from a golang-migrate source such as
// "file://migrations".
type Migrator struct {
	m      *migrate.Migrate
	logger zerolog.Logger
}

// NewMigrator opens the migration source and the target database.
func NewMigrator(databaseURL, sourceURL string, logger zerolog.Logger) (*Migrator, error) {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info().Msg("database migrations: no change")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	mg.logVersion("database migrations: applied")
	return nil
}

// Down rolls back the last steps migrations.
func (mg *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSteps, steps)
	}

	if err := mg.m.Steps(-steps); err != nil {
		return fmt.Errorf("failed to roll back %d migration(s): %w", steps, err)
	}

	mg.logVersion("database migrations: rolled back")
	return nil
}

// Version reports the applied schema version. applied is false on an empty
// database.
func (mg *Migrator) Version() (version uint, dirty, applied bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, true, nil
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) logVersion(msg string) {
	version, dirty, applied, err := mg.Version()
	if err != nil {
		mg.logger.Warn().Err(err).Msg(msg)
		return
	}
	mg.logger.Info().Uint("version", version).Bool("dirty", dirty).Bool("applied", applied).Msg(msg)
}

// RunMigrations applies every pending migration and closes the migrator.
func RunMigrations(databaseURL, sourceURL string, logger zerolog.Logger) error {
	mg, err := NewMigrator(databaseURL, sourceURL, logger)
	if err != nil {
		return err
	}
	defer mg.Close()

	return mg.Up()
}
