package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
)

// indexByID returns the position of the entity with the given id, or -1
func indexByID[T domain.Identified](items []T, id string) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

// indexByName returns the position of the entity whose name equals name
// case-insensitively, skipping exceptID. Returns -1 when there is none.
func indexByName[T domain.Named](items []T, name, exceptID string) int {
	for i, item := range items {
		if item.EntityID() == exceptID {
			continue
		}
		if strings.EqualFold(item.DisplayName(), name) {
			return i
		}
	}
	return -1
}

// findDuplicate looks for an existing entity that a new one with this name
// and id would duplicate
func findDuplicate[T domain.Named](items []T, name, id string) int {
	if i := indexByName(items, name, ""); i >= 0 {
		return i
	}
	return indexByID(items, id)
}

// namedID derives a category or payment method id from its name and the
// creation instant: lowercase, whitespace runs replaced by "-", then the
// unix millisecond timestamp.
func namedID(name string, at time.Time) string {
	slug := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	return fmt.Sprintf("%s-%d", slug, at.UnixMilli())
}

// resolveName returns the current name of the referenced entity, falling back
// to the stored snapshot and finally to the raw id
func resolveName[T domain.Named](items []T, id, snapshot string) string {
	if i := indexByID(items, id); i >= 0 {
		return items[i].DisplayName()
	}
	if snapshot != "" {
		return snapshot
	}
	return id
}

// renameBudgets refreshes the category name snapshot on every budget of the
// category and returns the touched budgets
func renameBudgets(budgets []domain.Budget, categoryID, name string) []domain.Budget {
	var touched []domain.Budget
	for i := range budgets {
		if budgets[i].Category == categoryID && budgets[i].CategoryName != name {
			budgets[i].CategoryName = name
			touched = append(touched, budgets[i])
		}
	}
	return touched
}

// removeBudgetsForCategory drops every budget of the category and returns the
// remaining list together with the removed budgets
func removeBudgetsForCategory(budgets []domain.Budget, categoryID string) ([]domain.Budget, []domain.Budget) {
	kept := budgets[:0]
	var removed []domain.Budget
	for _, b := range budgets {
		if b.Category == categoryID {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	return kept, removed
}

// budgetIndexForCategory returns the position of the category's budget, or -1
func budgetIndexForCategory(budgets []domain.Budget, categoryID string) int {
	for i, b := range budgets {
		if b.Category == categoryID {
			return i
		}
	}
	return -1
}

// removeAt deletes the element at i preserving order
func removeAt[T any](items []T, i int) []T {
	return append(items[:i], items[i+1:]...)
}
