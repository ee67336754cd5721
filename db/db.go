package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/utils"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Dependencies struct {
	OpenDB             func(driverName, dataSourceName string) (*sql.DB, error)
	PingDB             func(db *sql.DB) error
	NewMigrationDriver func(db *sql.DB) (database.Driver, error)
	NewMigrator        func(drv database.Driver) (Migrator, error)
	MaxAttempts        int
	RetryDelay         time.Duration
}

type Migrator interface {
	Version() (uint, bool, error)
	Force(int) error
	Up() error
}

var DefaultDependencies = Dependencies{
	OpenDB: sql.Open,
	PingDB: func(db *sql.DB) error { return db.Ping() },
	NewMigrationDriver: func(db *sql.DB) (database.Driver, error) {
		return postgres.WithInstance(db, &postgres.Config{})
	},
	NewMigrator: func(drv database.Driver) (Migrator, error) {
		src, err := iofs.New(migrationsFS, "migrations")
		if err != nil {
			return nil, err
		}
		return migrate.NewWithInstance("iofs", src, "postgres", drv)
	},
	MaxAttempts: 10,
	RetryDelay:  2 * time.Second,
}

// Open connects to Postgres and brings the gateway profile schema up to date.
func Open(dsn string, deps Dependencies) (*sql.DB, error) {
	dbConn, err := openAndPingDB(dsn, deps)
	if err != nil {
		return nil, err
	}

	drv, err := setupMigrationDriverWithRetry(dbConn, deps)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	migrator, err := setupMigratorWithRetry(drv, deps)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	if err := applyMigrations(migrator); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	utils.Logger.Info().Msg("gateway profile migrations applied")
	return dbConn, nil
}

func openAndPingDB(dsn string, deps Dependencies) (*sql.DB, error) {
	dbConn, err := deps.OpenDB("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db.Open failed: %w", err)
	}

	err = retry(deps, "database ping failed, retrying", func() error {
		return deps.PingDB(dbConn)
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("could not connect to database after %d attempts: %w", deps.MaxAttempts, err)
	}
	return dbConn, nil
}

func setupMigrationDriverWithRetry(db *sql.DB, deps Dependencies) (database.Driver, error) {
	var drv database.Driver
	err := retry(deps, "postgres.WithInstance failed, retrying", func() error {
		var err error
		drv, err = deps.NewMigrationDriver(db)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres.WithInstance failed after retries: %w", err)
	}
	return drv, nil
}

func setupMigratorWithRetry(drv database.Driver, deps Dependencies) (Migrator, error) {
	var m Migrator
	err := retry(deps, "migrate.NewWithInstance failed, retrying", func() error {
		var err error
		m, err = deps.NewMigrator(drv)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("migrate.NewWithInstance failed after retries: %w", err)
	}
	return m, nil
}

func retry(deps Dependencies, msg string, fn func() error) error {
	attempts := deps.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		utils.Logger.Warn().Err(err).Int("attempt", i).Dur("retry_delay", deps.RetryDelay).Msg(msg)
		time.Sleep(deps.RetryDelay)
	}
	return err
}

func applyMigrations(m Migrator) error {
	if m == nil {
		return errors.New("migration instance is nil")
	}

	if version, dirty, err := m.Version(); err == nil && dirty {
		utils.Logger.Warn().Uint("version", version).Msg("Detected dirty migration version, forcing state")
		if fErr := m.Force(int(version)); fErr != nil {
			return fmt.Errorf("migrate.Force(%d) failed: %w", version, fErr)
		}
	} else if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		utils.Logger.Warn().Err(err).Msg("migrator.Version failed")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate.Up failed: %w", err)
	}
	return nil
}
