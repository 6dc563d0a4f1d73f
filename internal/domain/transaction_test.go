package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validExpenseInput() TransactionInput {
	return TransactionInput{
		Type:          TransactionTypeExpense,
		Amount:        decimal.NewNullDecimal(decimal.NewFromInt(120)),
		Description:   "Weekly groceries",
		Category:      "food-1",
		Date:          time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "card-1",
	}
}

func TestTransactionInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *TransactionInput)
		wantErr error
	}{
		{"valid expense", func(in *TransactionInput) {}, nil},
		{"valid income without payment method", func(in *TransactionInput) {
			in.Type = TransactionTypeIncome
			in.PaymentMethod = ""
		}, nil},
		{"zero amount is allowed", func(in *TransactionInput) {
			in.Amount = decimal.NewNullDecimal(decimal.Zero)
		}, nil},
		{"unknown type", func(in *TransactionInput) { in.Type = "transfer" }, ErrInvalidTransactionType},
		{"missing amount", func(in *TransactionInput) { in.Amount = decimal.NullDecimal{} }, ErrAmountRequired},
		{"negative amount", func(in *TransactionInput) {
			in.Amount = decimal.NewNullDecimal(decimal.NewFromInt(-1))
		}, ErrNegativeAmount},
		{"blank description", func(in *TransactionInput) { in.Description = "   " }, ErrDescriptionRequired},
		{"description too long", func(in *TransactionInput) {
			in.Description = strings.Repeat("x", MaxDescriptionLength+1)
		}, ErrNameTooLong},
		{"missing category", func(in *TransactionInput) { in.Category = "" }, ErrCategoryRequired},
		{"missing date", func(in *TransactionInput) { in.Date = time.Time{} }, ErrDateRequired},
		{"expense without payment method", func(in *TransactionInput) { in.PaymentMethod = "" }, ErrPaymentMethodRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validExpenseInput()
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestFieldError_ReportsField(t *testing.T) {
	in := validExpenseInput()
	in.Date = time.Time{}

	var fe *FieldError
	err := in.Validate()
	if assert.True(t, errors.As(err, &fe)) {
		assert.Equal(t, "date", fe.Field)
	}
}

func TestBudgetInput_Validate(t *testing.T) {
	ok := BudgetInput{Category: "food-1", Amount: decimal.NewNullDecimal(decimal.NewFromInt(500))}
	assert.NoError(t, ok.Validate())

	assert.ErrorIs(t, BudgetInput{Amount: ok.Amount}.Validate(), ErrCategoryRequired)
	assert.ErrorIs(t, BudgetInput{Category: "food-1"}.Validate(), ErrAmountRequired)
	assert.ErrorIs(t, BudgetInput{
		Category: "food-1",
		Amount:   decimal.NewNullDecimal(decimal.NewFromInt(-5)),
	}.Validate(), ErrNegativeAmount)
}

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("  Groceries  ")
	assert.NoError(t, err)
	assert.Equal(t, "Groceries", name)

	_, err = NormalizeName("   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = NormalizeName(strings.Repeat("a", MaxNameLength+1))
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestParseCategoryKind(t *testing.T) {
	kind, err := ParseCategoryKind("Expense")
	assert.NoError(t, err)
	assert.Equal(t, CategoryKindExpense, kind)

	kind, err = ParseCategoryKind("income")
	assert.NoError(t, err)
	assert.Equal(t, CategoryKindIncome, kind)

	_, err = ParseCategoryKind("savings")
	assert.ErrorIs(t, err, ErrInvalidCategoryKind)
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{
		From: time.Date(2026, 10, 1, 15, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC),
	}

	assert.True(t, r.Contains(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)), "start day counts from midnight")
	assert.True(t, r.Contains(time.Date(2026, 10, 10, 23, 59, 0, 0, time.UTC)), "end day counts until midnight")
	assert.False(t, r.Contains(time.Date(2026, 9, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)))

	assert.True(t, DateRange{}.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)), "open range contains everything")
}

func TestDateRange_Validate(t *testing.T) {
	from := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, DateRange{From: from, To: from}.Validate())
	assert.ErrorIs(t, DateRange{From: from, To: from.AddDate(0, 0, -1)}.Validate(), ErrInvalidDateRange)
	assert.NoError(t, DateRange{From: from}.Validate())
}

func TestDefaultDateRange(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	r := DefaultDateRange(now)
	assert.Equal(t, time.Date(2026, 4, 19, 12, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, now, r.To)
}

func TestMutationResult_Applied(t *testing.T) {
	c := Category{ID: "food-1", Name: "Food"}
	assert.True(t, Created(c).Applied())
	assert.True(t, Updated(c).Applied())
	assert.True(t, Deleted(c).Applied())
	assert.False(t, AlreadyExists(c).Applied())

	rejected := Rejected(c, ErrNameConflict)
	assert.False(t, rejected.Applied())
	assert.ErrorIs(t, rejected.Reason, ErrNameConflict)
}
