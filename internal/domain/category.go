package domain

import "strings"

// CategoryKind selects one of the two independent category namespaces
type CategoryKind string

const (
	CategoryKindExpense CategoryKind = "expense"
	CategoryKindIncome  CategoryKind = "income"
)

// ParseCategoryKind converts a path segment into a CategoryKind
func ParseCategoryKind(s string) (CategoryKind, error) {
	switch CategoryKind(strings.ToLower(s)) {
	case CategoryKindExpense:
		return CategoryKindExpense, nil
	case CategoryKindIncome:
		return CategoryKindIncome, nil
	}
	return "", ErrInvalidCategoryKind
}

// ForTransactionType returns the category namespace used by a transaction type
func ForTransactionType(t TransactionType) CategoryKind {
	if t == TransactionTypeIncome {
		return CategoryKindIncome
	}
	return CategoryKindExpense
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NormalizeName trims a user supplied name and checks its length
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fieldError("name", ErrNameRequired)
	}
	if len(name) > MaxNameLength {
		return "", fieldError("name", ErrNameTooLong)
	}
	return name, nil
}

func (c Category) EntityID() string    { return c.ID }
func (c Category) DisplayName() string { return c.Name }

func (p PaymentMethod) EntityID() string    { return p.ID }
func (p PaymentMethod) DisplayName() string { return p.Name }
