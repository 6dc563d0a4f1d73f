package repository

import (
	"context"
	"fmt"
	"io"

	"github.com/bolsillo/bolsillo-backend/internal/config"
	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/repository/memory"
	"github.com/bolsillo/bolsillo-backend/internal/repository/postgres"
	"github.com/bolsillo/bolsillo-backend/internal/repository/sqlite"
	"github.com/bolsillo/bolsillo-backend/internal/repository/storage"
)

// KVBackend is a slot store that holds resources until closed
type KVBackend interface {
	domain.KeyValueStore
	io.Closer
}

var (
	_ KVBackend = (*memory.KVStore)(nil)
	_ KVBackend = (*sqlite.KVStore)(nil)
	_ KVBackend = (*postgres.KVStore)(nil)
	_ KVBackend = (*storage.S3KVStore)(nil)
	_ KVBackend = (*storage.GCSKVStore)(nil)
)

// OpenKVBackend opens the slot store selected by cfg.StorageBackend
func OpenKVBackend(ctx context.Context, cfg *config.Config) (KVBackend, error) {
	var (
		backend KVBackend
		err     error
	)
	switch cfg.StorageBackend {
	case config.BackendMemory:
		backend = memory.NewKVStore()
	case config.BackendSQLite:
		backend, err = sqlite.NewKVStore(cfg.SQLitePath)
	case config.BackendPostgres:
		backend, err = postgres.NewKVStore(ctx, cfg.DatabaseURL)
	case config.BackendS3:
		backend, err = storage.NewS3KVStore(ctx, cfg.S3)
	case config.BackendGCS:
		backend, err = storage.NewGCSKVStore(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.StorageBackend, err)
	}
	return backend, nil
}
