package migration

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"goeda/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
	Applied(ctx context.Context, db *sqlx.DB) ([]string, error)
}

// MigrationRunner handles database schema migrations. Statements stay within the SQL
// subset shared by Postgres and SQLite so the catalog runs on either.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDatasetsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create datasets table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	if err := r.recordVersion(ctx, db); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}

	return nil
}

// Applied lists the schema versions recorded in the database, oldest first
func (r *MigrationRunner) Applied(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var versions []string
	err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations ORDER BY applied_at, version`)
	if err != nil {
		return nil, errors.DatabaseError("failed to read schema versions", err)
	}
	return versions, nil
}

func (r *MigrationRunner) recordVersion(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)
	`); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2) ON CONFLICT (version) DO NOTHING`,
		r.version, time.Now().UTC())
	return err
}

func (r *MigrationRunner) createDatasetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS datasets (
			filename TEXT PRIMARY KEY,
			original_filename TEXT NOT NULL,
			format TEXT NOT NULL,
			size_bytes BIGINT NOT NULL DEFAULT 0,
			derived_from TEXT,
			uploaded_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_datasets_uploaded_at ON datasets (uploaded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_datasets_derived_from ON datasets (derived_from)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
