package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"goeda/adapters/postgres"
	"goeda/domain/eda"
	"goeda/internal/config"
	"goeda/internal/container"
	"goeda/internal/dataset"
	apperrors "goeda/internal/errors"
	"goeda/internal/migration"
	"goeda/ports"
)

// migrate creates the catalog schema and records every dataset file that is not yet catalogued
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, err := container.OpenDatabase(ctx, cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer db.Close()

	if err := checkSchema(ctx, db, migration.NewRunner()); err != nil {
		log.Fatalf("Schema check failed: %v", err)
	}

	log.Printf("Backfilling %s catalog from %s", cfg.Catalog.Driver, cfg.Storage.Dir)

	storage := dataset.NewLocalFileStorageWithPath(cfg.Storage.Dir)
	repo := postgres.NewDatasetRepository(db)
	migrated, skipped, err := backfill(ctx, storage, repo)
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}
	log.Printf("Migration complete: %d recorded, %d already present", migrated, skipped)

	records, err := catalogContents(ctx, repo, catalogPageSize)
	if err != nil {
		log.Fatalf("Failed to list catalog: %v", err)
	}
	for _, rec := range records {
		source := rec.DerivedFrom
		if source == "" {
			source = "-"
		}
		log.Printf("  %-48s %-8s %9.2f MB  from %s", rec.Filename, rec.Format, rec.SizeMB(), source)
	}
	log.Printf("Catalog holds %d datasets", len(records))
}

const catalogPageSize = 100

// checkSchema confirms the database carries the schema version this binary migrates to
func checkSchema(ctx context.Context, db *sqlx.DB, m migration.Migrator) error {
	applied, err := m.Applied(ctx, db)
	if err != nil {
		return err
	}
	for _, v := range applied {
		if v == m.Version() {
			log.Printf("Catalog schema at version %s (%d applied)", v, len(applied))
			return nil
		}
	}
	return apperrors.ConfigInvalid(fmt.Sprintf("catalog schema version %s has not been applied", m.Version()))
}

// catalogContents pages through every catalog record, newest first
func catalogContents(ctx context.Context, repo ports.DatasetRepository, pageSize int) ([]*eda.DatasetRecord, error) {
	var all []*eda.DatasetRecord
	for offset := 0; ; offset += pageSize {
		page, err := repo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

func backfill(ctx context.Context, storage ports.FileStorage, repo ports.DatasetRepository) (migrated, skipped int, err error) {
	records, err := storage.List(ctx)
	if err != nil {
		return 0, 0, err
	}

	present := make(map[string]bool, len(records))
	for _, rec := range records {
		present[rec.Filename] = true
	}

	for _, rec := range records {
		if _, err := repo.GetByFilename(ctx, rec.Filename); err == nil {
			skipped++
			continue
		} else if !apperrors.HasCode(err, apperrors.CodeTableNotFound) {
			return migrated, skipped, err
		}

		entry := *rec
		entry.OriginalFilename = rec.Filename
		if source, ok := derivedSource(rec.Filename); ok && present[source] {
			entry.DerivedFrom = source
		}
		if err := repo.Save(ctx, &entry); err != nil {
			return migrated, skipped, err
		}
		migrated++
		log.Printf("Recorded %s", rec.Filename)
	}
	return migrated, skipped, nil
}

// derivedSource inverts the <base>_eda<ext> naming of column removal output
func derivedSource(filename string) (string, bool) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	if !strings.HasSuffix(base, "_eda") {
		return "", false
	}
	return strings.TrimSuffix(base, "_eda") + ext, true
}

