package service

import "github.com/bolsillo/bolsillo-backend/internal/domain"

// FilterByDateRange keeps the transactions dated on a day inside r. An open
// range returns every transaction.
func FilterByDateRange(transactions []domain.Transaction, r domain.DateRange) []domain.Transaction {
	if !r.IsBounded() {
		return append(make([]domain.Transaction, 0, len(transactions)), transactions...)
	}

	filtered := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			continue
		}
		if r.Contains(tx.Date) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}
