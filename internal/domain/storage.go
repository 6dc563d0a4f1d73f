package domain

import "context"

// Storage slot names. Each slot holds one JSON array.
const (
	SlotTransactions      = "transactions"
	SlotBudgets           = "budgets"
	SlotExpenseCategories = "expenseCategories"
	SlotIncomeCategories  = "incomeCategories"
	SlotPaymentMethods    = "paymentMethods"
)

// AllSlots lists every slot loaded at startup
var AllSlots = []string{
	SlotTransactions,
	SlotBudgets,
	SlotExpenseCategories,
	SlotIncomeCategories,
	SlotPaymentMethods,
}

// CategorySlot returns the slot that stores the given category namespace
func CategorySlot(kind CategoryKind) string {
	if kind == CategoryKindIncome {
		return SlotIncomeCategories
	}
	return SlotExpenseCategories
}

// KeyValueStore is the durable backend behind the persistence adapter.
// Get reports found=false when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Snapshot is the full set of entity containers
type Snapshot struct {
	Transactions      []Transaction   `json:"transactions"`
	Budgets           []Budget        `json:"budgets"`
	ExpenseCategories []Category      `json:"expenseCategories"`
	IncomeCategories  []Category      `json:"incomeCategories"`
	PaymentMethods    []PaymentMethod `json:"paymentMethods"`
}
