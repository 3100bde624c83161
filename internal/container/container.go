package container

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"goeda/adapters/postgres"
	"goeda/adapters/rng"
	"goeda/adapters/tabular"
	"goeda/app"
	"goeda/internal"
	"goeda/internal/config"
	"goeda/internal/dataset"
	"goeda/internal/errors"
	"goeda/internal/migration"
	"goeda/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB      *sqlx.DB
	Storage *dataset.LocalFileStorage
	Reader  *tabular.DataReader
	Writer  *tabular.DataWriter
	RNG     *rng.RNGAdapter

	// Repositories (data access layer)
	DatasetRepo ports.DatasetRepository

	// Services
	AnalysisService *app.AnalysisService
	DatasetService  *app.DatasetService
}

// New creates a container with file-based components only; call InitWithDatabase to add the catalog
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel), ""),
		Storage: dataset.NewLocalFileStorage(&dataset.StorageConfig{
			BasePath:    cfg.Storage.Dir,
			MaxFileSize: cfg.Storage.MaxUploadBytes(),
			ChunkSize:   dataset.DefaultStorageConfig().ChunkSize,
		}),
		Reader: tabular.NewDataReader(),
		Writer: tabular.NewDataWriter(),
		RNG:    rng.NewRNGAdapter(cfg.Analysis.ScatterSeed),
	}
	c.initServices()
	return c, nil
}

// OpenDatabase connects to the configured catalog database and runs migrations
func OpenDatabase(ctx context.Context, cfg config.CatalogConfig) (*sqlx.DB, error) {
	if cfg.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.URL), 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create catalog directory")
		}
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to catalog database", err)
	}
	if cfg.Driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "catalog migration failed")
	}
	return db, nil
}

// InitWithDatabase attaches the dataset catalog
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DatasetRepo = postgres.NewDatasetRepository(db)
	c.initServices()

	log.Printf("[Container] initialized with %s catalog", c.Config.Catalog.Driver)
	return nil
}

func (c *Container) initServices() {
	c.AnalysisService = app.NewAnalysisService(c.Storage, c.Reader, c.RNG, c.Logger)
	c.DatasetService = app.NewDatasetService(c.Storage, c.DatasetRepo, c.Reader, c.Writer, c.Logger)
}

// Shutdown closes the catalog database
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
