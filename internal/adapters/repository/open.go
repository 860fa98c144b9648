package repository

import (
	"context"
	"fmt"

	"github.com/aocbot/aocbot/internal/config"
)

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, opts ...Option) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		return NewSQLiteStore(ctx, cfg.DSN, opts...)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.DSN, opts...)
	}
	return nil, fmt.Errorf("repository.open: unknown driver %q", cfg.Driver)
}
