package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Budget is a spending limit for one expense category.
type Budget struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
}

type BudgetInput struct {
	Category string              `json:"category"`
	Amount   decimal.NullDecimal `json:"amount"`
}

// Validate applies the budget form rules
func (in BudgetInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return fieldError("category", ErrCategoryRequired)
	}
	if !in.Amount.Valid {
		return fieldError("amount", ErrAmountRequired)
	}
	if in.Amount.Decimal.IsNegative() {
		return fieldError("amount", ErrNegativeAmount)
	}
	return nil
}

func (b Budget) EntityID() string { return b.ID }
