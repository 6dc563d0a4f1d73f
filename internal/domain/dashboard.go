package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals holds the scalar dashboard figures for a filtered transaction set
type Totals struct {
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	TotalIncome           decimal.Decimal `json:"totalIncome"`
	TotalBalance          decimal.Decimal `json:"totalBalance"`
	TotalBudget           decimal.Decimal `json:"totalBudget"`
	BudgetBalance         decimal.Decimal `json:"budgetBalance"`
	BudgetUsagePercentage decimal.Decimal `json:"budgetUsagePercentage"`
}

// CategoryAmount is one slice of a by-category breakdown
type CategoryAmount struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
}

// CategoryShare is a non-zero category slice with its share of the total
type CategoryShare struct {
	CategoryAmount
	Percent decimal.Decimal `json:"percent"`
}

// BucketGranularity is the time partition used by the income/expense series
type BucketGranularity string

const (
	BucketDay   BucketGranularity = "day"
	BucketMonth BucketGranularity = "month"
)

// IncomeExpensePoint is one bucket of the expense-vs-income series.
// Date is the bucket start and is the sort key; Name is only a label.
type IncomeExpensePoint struct {
	Name     string          `json:"name"`
	Date     time.Time       `json:"date"`
	Expenses decimal.Decimal `json:"expenses"`
	Income   decimal.Decimal `json:"income"`
}

// IncomeExpenseSeries is the expense-vs-income chart data
type IncomeExpenseSeries struct {
	Granularity BucketGranularity    `json:"granularity"`
	Points      []IncomeExpensePoint `json:"points"`
}

// BudgetComparison is one expense-vs-budget row
type BudgetComparison struct {
	BudgetID        string          `json:"budgetId"`
	CategoryID      string          `json:"categoryId"`
	Name            string          `json:"name"`
	Expense         decimal.Decimal `json:"expense"`
	Budget          decimal.Decimal `json:"budget"`
	Remaining       decimal.Decimal `json:"remaining"`
	UsagePercentage decimal.Decimal `json:"usagePercentage"`
	OverBudget      bool            `json:"overBudget"`
}

// MonthlyTrendPoint is one month-of-year bucket of the budget trend
type MonthlyTrendPoint struct {
	Month    string          `json:"month"`
	Expenses decimal.Decimal `json:"expenses"`
	Budget   decimal.Decimal `json:"budget"`
}

// Dashboard is the complete read model served to presentation clients
type Dashboard struct {
	Version              uint64              `json:"version"`
	DateRange            DateRange           `json:"dateRange"`
	FilteredTransactions []Transaction       `json:"filteredTransactions"`
	RecentTransactions   []Transaction       `json:"recentTransactions"`
	Totals               Totals              `json:"totals"`
	ExpensesByCategory   []CategoryAmount    `json:"expensesByCategory"`
	IncomeByCategory     []CategoryAmount    `json:"incomeByCategory"`
	ExpenseShares        []CategoryShare     `json:"expenseShares"`
	ExpenseVsIncome      IncomeExpenseSeries `json:"expenseVsIncome"`
	ExpenseVsBudget      []BudgetComparison  `json:"expenseVsBudget"`
	MonthlyTrend         []MonthlyTrendPoint `json:"monthlyTrend"`
	Snapshot
}
