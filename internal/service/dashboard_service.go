package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DashboardService builds the dashboard read model from the entity store.
// The last result is memoized on (store version, date range); concurrent
// requests for the same key share one computation.
type DashboardService struct {
	store       *EntityStore
	recentLimit int

	group singleflight.Group

	mu        sync.Mutex
	cachedKey string
	cached    *domain.Dashboard
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store *EntityStore) *DashboardService {
	return &DashboardService{
		store:       store,
		recentLimit: DefaultRecentLimit,
	}
}

// GetDashboard returns the read model for the active date range, or for
// override when it is non-nil. The returned value must not be modified.
func (s *DashboardService) GetDashboard(override *domain.DateRange) (*domain.Dashboard, error) {
	snap, r, version := s.store.ReadModel()
	if override != nil {
		if err := override.Validate(); err != nil {
			return nil, err
		}
		r = *override
	}

	key := memoKey(version, r)

	s.mu.Lock()
	if s.cached != nil && s.cachedKey == key {
		cached := s.cached
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	v, _, _ := s.group.Do(key, func() (any, error) {
		start := time.Now()
		d := s.build(snap, r, version)

		s.mu.Lock()
		s.cachedKey = key
		s.cached = d
		s.mu.Unlock()

		log.Debug().
			Uint64("version", version).
			Int("transactions", len(d.FilteredTransactions)).
			Dur("took", time.Since(start)).
			Msg("Dashboard recomputed")
		return d, nil
	})
	return v.(*domain.Dashboard), nil
}

func (s *DashboardService) build(snap domain.Snapshot, r domain.DateRange, version uint64) *domain.Dashboard {
	filtered := FilterByDateRange(snap.Transactions, r)
	expensesByCategory := ByCategory(filtered, domain.TransactionTypeExpense, snap.ExpenseCategories)

	return &domain.Dashboard{
		Version:              version,
		DateRange:            r,
		FilteredTransactions: filtered,
		RecentTransactions:   RecentTransactions(filtered, s.recentLimit),
		Totals:               ComputeTotals(filtered, snap.Budgets),
		ExpensesByCategory:   expensesByCategory,
		IncomeByCategory:     ByCategory(filtered, domain.TransactionTypeIncome, snap.IncomeCategories),
		ExpenseShares:        CategoryShares(expensesByCategory),
		ExpenseVsIncome:      ExpenseVsIncome(filtered, r),
		ExpenseVsBudget:      ExpenseVsBudget(filtered, snap.Budgets, snap.ExpenseCategories),
		MonthlyTrend:         MonthlyTrend(filtered, snap.Budgets, r.Location()),
		Snapshot:             snap,
	}
}

// TransactionQuery narrows the transaction list
type TransactionQuery struct {
	// Range overrides the active date range when set
	Range *domain.DateRange
	// Search is matched against description, category name and notes
	Search string
}

// ListTransactions returns the transactions inside the query's range that
// match its search text, newest first
func (s *DashboardService) ListTransactions(q TransactionQuery) ([]domain.Transaction, error) {
	r := s.store.DateRange()
	if q.Range != nil {
		if err := q.Range.Validate(); err != nil {
			return nil, err
		}
		r = *q.Range
	}

	txs := SearchTransactions(FilterByDateRange(s.store.Transactions(), r), q.Search)
	SortByDateDesc(txs)
	return txs, nil
}

// RecentTransactions returns the newest transactions of the active range
func (s *DashboardService) RecentTransactions(limit int) []domain.Transaction {
	return RecentTransactions(FilterByDateRange(s.store.Transactions(), s.store.DateRange()), limit)
}

func memoKey(version uint64, r domain.DateRange) string {
	return fmt.Sprintf("%d|%s|%s|%s", version, r.From.Format(time.RFC3339Nano), r.To.Format(time.RFC3339Nano), r.Location())
}
