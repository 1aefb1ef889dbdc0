package storage

import (
	"fmt"

	"github.com/netlab/netlabctl/internal/config"
	"github.com/netlab/netlabctl/internal/database"
	"github.com/netlab/netlabctl/internal/database/repository"
)

// Open builds the backend named by cfg. The returned close func releases it.
func Open(cfg config.StorageConfig) (Storage, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), noop, nil
	case config.BackendFile:
		return NewFile(cfg.Path), noop, nil
	case config.BackendSQLite, "":
		db, err := database.OpenMigrated(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return NewSQL(repository.NewKVRepo(db)), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
