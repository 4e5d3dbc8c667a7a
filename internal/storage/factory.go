package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/overmap/overmap/internal/config"
	"github.com/overmap/overmap/internal/database"
	"github.com/overmap/overmap/internal/storage/file"
	"github.com/overmap/overmap/internal/storage/gormstore"
)

// New creates a storage backend based on configuration. Every backend
// is wrapped in the document cache.
func New(cfg config.StorageConfig, log zerolog.Logger) (Store, error) {
	backend, err := newBackend(cfg, log)
	if err != nil {
		return nil, err
	}
	return WithCache(backend), nil
}

func newBackend(cfg config.StorageConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "file":
		return file.New(cfg.File.OutputDir, cfg.File.CompressOutput), nil
	case "sqlite":
		db, err := database.NewManager(log).GetSqliteDB(cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		return gormstore.New(db), nil
	case "postgres":
		m := database.NewManager(log)
		if err := m.Connect(); err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return gormstore.New(m.DB), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
