package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*KVStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "bolsillo.db")
	s, err := NewKVStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestKVStore_GetMissing(t *testing.T) {
	s, _ := newTestStore(t)

	value, found, err := s.Get(context.Background(), "transactions")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func TestKVStore_Upsert(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "budgets", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "budgets", []byte(`[{"id":"b1","amount":"500"}]`)))

	value, found, err := s.Get(ctx, "budgets")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"b1","amount":"500"}]`, string(value))

	var rows int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM kv_slots`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestKVStore_SurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "paymentMethods", []byte(`[{"id":"cash-1","name":"Cash"}]`)))
	require.NoError(t, s.Close())

	reopened, err := NewKVStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, "paymentMethods")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"cash-1","name":"Cash"}]`, string(value))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	_, path := newTestStore(t)

	assert.NoError(t, RunMigrations(path))
}
