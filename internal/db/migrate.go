package db

import (
	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the database drivers and the file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// runSQLMigrations executes migrations in ./migrations using golang-migrate.
// Postgres URLs are passed through; sqlite file paths get the sqlite3 scheme.
func runSQLMigrations(dsn string) error {
	target := NormalizeDSN(dsn)
	if !IsPostgresDSN(target) {
		target = "sqlite3://" + target
	}
	m, err := migrate.New("file://migrations", target)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
