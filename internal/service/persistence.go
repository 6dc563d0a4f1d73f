package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultPersistTimeout bounds a single slot write
const DefaultPersistTimeout = 5 * time.Second

// PersistenceAdapter mirrors the entity containers into a key-value backend.
// Reads fall back to a default and writes are best-effort: failures are
// logged and never reach the caller.
type PersistenceAdapter struct {
	kv      domain.KeyValueStore
	timeout time.Duration
}

// NewPersistenceAdapter creates a new PersistenceAdapter
func NewPersistenceAdapter(kv domain.KeyValueStore, timeout time.Duration) *PersistenceAdapter {
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}
	return &PersistenceAdapter{kv: kv, timeout: timeout}
}

// loadSlot returns the slot's decoded value, or def when the slot is absent,
// unreadable or holds malformed JSON
func loadSlot[T any](ctx context.Context, p *PersistenceAdapter, key string, def []T) []T {
	data, found, err := p.kv.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("slot", key).Msg("Failed to read slot, using default")
		return def
	}
	if !found || len(data) == 0 {
		return def
	}

	var value []T
	if err := json.Unmarshal(data, &value); err != nil {
		log.Error().Err(err).Str("slot", key).Msg("Failed to decode slot, using default")
		return def
	}
	if value == nil {
		return def
	}

	log.Debug().Str("slot", key).Int("count", len(value)).Msg("Loaded slot")
	return value
}

// LoadSnapshot reads all five slots concurrently. Slot failures degrade to
// empty containers; only context cancellation is reported.
func (p *PersistenceAdapter) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Transactions = loadSlot(gctx, p, domain.SlotTransactions, []domain.Transaction{})
		return gctx.Err()
	})
	g.Go(func() error {
		snap.Budgets = loadSlot(gctx, p, domain.SlotBudgets, []domain.Budget{})
		return gctx.Err()
	})
	g.Go(func() error {
		snap.ExpenseCategories = loadSlot(gctx, p, domain.SlotExpenseCategories, []domain.Category{})
		return gctx.Err()
	})
	g.Go(func() error {
		snap.IncomeCategories = loadSlot(gctx, p, domain.SlotIncomeCategories, []domain.Category{})
		return gctx.Err()
	})
	g.Go(func() error {
		snap.PaymentMethods = loadSlot(gctx, p, domain.SlotPaymentMethods, []domain.PaymentMethod{})
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// Save serializes value into the slot. The write outlives a cancelled
// request context but is bounded by the adapter timeout.
func (p *PersistenceAdapter) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("slot", key).Msg("Failed to encode slot")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.kv.Set(ctx, key, data); err != nil {
		log.Error().Err(err).Str("slot", key).Msg("Failed to persist slot, changes may not survive a restart")
		return
	}
	log.Debug().Str("slot", key).Int("bytes", len(data)).Msg("Persisted slot")
}
