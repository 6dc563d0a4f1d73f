package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bolsillo/bolsillo-backend/internal/config"
	"github.com/bolsillo/bolsillo-backend/internal/repository/memory"
	"github.com/bolsillo/bolsillo-backend/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenKVBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		backend, err := OpenKVBackend(ctx, &config.Config{StorageBackend: config.BackendMemory})
		require.NoError(t, err)
		defer backend.Close()
		assert.IsType(t, &memory.KVStore{}, backend)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "slots.db")
		backend, err := OpenKVBackend(ctx, &config.Config{StorageBackend: config.BackendSQLite, SQLitePath: path})
		require.NoError(t, err)
		defer backend.Close()
		assert.IsType(t, &sqlite.KVStore{}, backend)

		require.NoError(t, backend.Set(ctx, "budgets", []byte(`[]`)))
		_, found, err := backend.Get(ctx, "budgets")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := OpenKVBackend(ctx, &config.Config{StorageBackend: "etcd"})
		assert.ErrorContains(t, err, "unknown storage backend")
	})
}
