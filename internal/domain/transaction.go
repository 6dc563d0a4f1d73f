package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense entry. CategoryName and
// PaymentMethodName are snapshots taken at the transaction's last write.
type Transaction struct {
	ID                string          `json:"id"`
	Type              TransactionType `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	CategoryName      string          `json:"categoryName"`
	Date              time.Time       `json:"date"`
	PaymentMethod     string          `json:"paymentMethod,omitempty"`
	PaymentMethodName string          `json:"paymentMethodName,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// IsExpense reports whether the transaction is an expense
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

func (t Transaction) EntityID() string { return t.ID }

// TransactionInput carries the user-editable fields of a transaction.
// Amount is nullable so that a missing amount can be told apart from zero.
type TransactionInput struct {
	Type          TransactionType     `json:"type"`
	Amount        decimal.NullDecimal `json:"amount"`
	Description   string              `json:"description"`
	Category      string              `json:"category"`
	Date          time.Time           `json:"date"`
	PaymentMethod string              `json:"paymentMethod,omitempty"`
	Notes         string              `json:"notes,omitempty"`
}

// Validate applies the transaction form rules: amount, description, category
// and date are required, and expenses also need a payment method.
func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return fieldError("type", ErrInvalidTransactionType)
	}
	if !in.Amount.Valid {
		return fieldError("amount", ErrAmountRequired)
	}
	if in.Amount.Decimal.IsNegative() {
		return fieldError("amount", ErrNegativeAmount)
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return fieldError("description", ErrDescriptionRequired)
	}
	if len(description) > MaxDescriptionLength {
		return fieldError("description", ErrNameTooLong)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fieldError("category", ErrCategoryRequired)
	}
	if in.Date.IsZero() {
		return fieldError("date", ErrDateRequired)
	}
	if in.Type == TransactionTypeExpense && strings.TrimSpace(in.PaymentMethod) == "" {
		return fieldError("paymentMethod", ErrPaymentMethodRequired)
	}
	return nil
}
