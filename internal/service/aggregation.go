package service

import (
	"slices"
	"strings"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/util"
	"github.com/shopspring/decimal"
)

// DailyBucketMaxDays is the widest range still bucketed by day
const DailyBucketMaxDays = 31

// DefaultRecentLimit is the number of transactions in the recent list
const DefaultRecentLimit = 5

var hundred = decimal.NewFromInt(100)

// percentOf returns part / whole * 100, or zero when whole is zero
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// ComputeTotals derives the scalar dashboard figures
func ComputeTotals(transactions []domain.Transaction, budgets []domain.Budget) domain.Totals {
	expenses := decimal.Zero
	income := decimal.Zero
	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeExpense:
			expenses = expenses.Add(tx.Amount)
		case domain.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		}
	}

	budget := sumBudgets(budgets)

	return domain.Totals{
		TotalExpenses:         expenses,
		TotalIncome:           income,
		TotalBalance:          income.Sub(expenses),
		TotalBudget:           budget,
		BudgetBalance:         budget.Sub(expenses),
		BudgetUsagePercentage: percentOf(expenses, budget),
	}
}

func sumBudgets(budgets []domain.Budget) decimal.Decimal {
	total := decimal.Zero
	for _, b := range budgets {
		total = total.Add(b.Amount)
	}
	return total
}

// ByCategory sums the transactions of txType per category. Every known
// category appears, zero or not, in list order. Transactions pointing at a
// category that no longer exists get their own bucket named after the
// transaction's stored name.
func ByCategory(transactions []domain.Transaction, txType domain.TransactionType, categories []domain.Category) []domain.CategoryAmount {
	result := make([]domain.CategoryAmount, 0, len(categories))
	index := make(map[string]int, len(categories))

	for _, c := range categories {
		index[c.ID] = len(result)
		result = append(result, domain.CategoryAmount{CategoryID: c.ID, Name: c.Name, Value: decimal.Zero})
	}

	for _, tx := range transactions {
		if tx.Type != txType {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(result)
			index[tx.Category] = i
			result = append(result, domain.CategoryAmount{
				CategoryID: tx.Category,
				Name:       resolveName(categories, tx.Category, tx.CategoryName),
				Value:      decimal.Zero,
			})
		}
		result[i].Value = result[i].Value.Add(tx.Amount)
	}
	return result
}

// CategoryShares keeps the non-zero breakdown entries, attaches their share of
// the total and orders them largest first
func CategoryShares(amounts []domain.CategoryAmount) []domain.CategoryShare {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Value)
	}

	shares := make([]domain.CategoryShare, 0, len(amounts))
	for _, a := range amounts {
		if a.Value.IsZero() {
			continue
		}
		shares = append(shares, domain.CategoryShare{CategoryAmount: a, Percent: percentOf(a.Value, total)})
	}

	slices.SortStableFunc(shares, func(a, b domain.CategoryShare) int {
		return b.Value.Cmp(a.Value)
	})
	return shares
}

// ExpenseVsIncome buckets the transactions by day when the range spans at
// most 31 days and by calendar month otherwise. Every bucket of the range is
// present, and the series is ordered by bucket start.
//
// An open range does not yield an empty series: it is replaced by the span
// of the transactions themselves, and only an empty input gives no points.
func ExpenseVsIncome(transactions []domain.Transaction, r domain.DateRange) domain.IncomeExpenseSeries {
	if !r.IsBounded() {
		r = transactionSpan(transactions)
		if !r.IsBounded() {
			return domain.IncomeExpenseSeries{Granularity: domain.BucketDay, Points: []domain.IncomeExpensePoint{}}
		}
	}

	loc := r.Location()
	from := r.From.In(loc)
	to := r.To.In(loc)

	granularity := domain.BucketMonth
	if util.SpanDays(from, to) <= DailyBucketMaxDays {
		granularity = domain.BucketDay
	}

	bucketStart := util.StartOfMonth
	step := func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	label := "Jan 2006"
	if granularity == domain.BucketDay {
		bucketStart = util.StartOfDay
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		label = "02 Jan"
	}

	points := []domain.IncomeExpensePoint{}
	index := make(map[int64]int)
	addBucket := func(start time.Time) int {
		index[start.Unix()] = len(points)
		points = append(points, domain.IncomeExpensePoint{
			Name:     start.Format(label),
			Date:     start,
			Expenses: decimal.Zero,
			Income:   decimal.Zero,
		})
		return len(points) - 1
	}

	last := bucketStart(to)
	for t := bucketStart(from); !t.After(last); t = step(t) {
		addBucket(t)
	}

	for _, tx := range transactions {
		if tx.Date.IsZero() {
			continue
		}
		start := bucketStart(tx.Date.In(loc))
		i, ok := index[start.Unix()]
		if !ok {
			i = addBucket(start)
		}
		switch tx.Type {
		case domain.TransactionTypeExpense:
			points[i].Expenses = points[i].Expenses.Add(tx.Amount)
		case domain.TransactionTypeIncome:
			points[i].Income = points[i].Income.Add(tx.Amount)
		}
	}

	slices.SortStableFunc(points, func(a, b domain.IncomeExpensePoint) int {
		return a.Date.Compare(b.Date)
	})

	return domain.IncomeExpenseSeries{Granularity: granularity, Points: points}
}

// transactionSpan returns the range from the earliest to the latest dated transaction
func transactionSpan(transactions []domain.Transaction) domain.DateRange {
	var r domain.DateRange
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			continue
		}
		if r.From.IsZero() || tx.Date.Before(r.From) {
			r.From = tx.Date
		}
		if r.To.IsZero() || tx.Date.After(r.To) {
			r.To = tx.Date
		}
	}
	if !r.From.IsZero() {
		r.To = r.To.In(r.From.Location())
	}
	return r
}

// ExpenseVsBudget compares each budget with the filtered expenses of its
// category, one row per budget in budget order
func ExpenseVsBudget(transactions []domain.Transaction, budgets []domain.Budget, expenseCategories []domain.Category) []domain.BudgetComparison {
	spent := expensesByCategoryID(transactions)

	rows := make([]domain.BudgetComparison, 0, len(budgets))
	for _, b := range budgets {
		expense, ok := spent[b.Category]
		if !ok {
			expense = decimal.Zero
		}
		rows = append(rows, domain.BudgetComparison{
			BudgetID:        b.ID,
			CategoryID:      b.Category,
			Name:            resolveName(expenseCategories, b.Category, b.CategoryName),
			Expense:         expense,
			Budget:          b.Amount,
			Remaining:       b.Amount.Sub(expense),
			UsagePercentage: percentOf(expense, b.Amount),
			OverBudget:      expense.GreaterThan(b.Amount),
		})
	}
	return rows
}

func expensesByCategoryID(transactions []domain.Transaction) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
	}
	return spent
}

// MonthlyTrend sums expenses per month of the year, Jan to Dec, merging years.
// The budget figure is the total of all budgets on every month.
func MonthlyTrend(transactions []domain.Transaction, budgets []domain.Budget, loc *time.Location) []domain.MonthlyTrendPoint {
	if loc == nil {
		loc = time.UTC
	}
	budget := sumBudgets(budgets)

	points := make([]domain.MonthlyTrendPoint, len(util.MonthAbbreviations))
	for i, name := range util.MonthAbbreviations {
		points[i] = domain.MonthlyTrendPoint{Month: name, Expenses: decimal.Zero, Budget: budget}
	}

	for _, tx := range transactions {
		if !tx.IsExpense() || tx.Date.IsZero() {
			continue
		}
		m := tx.Date.In(loc).Month() - 1
		points[m].Expenses = points[m].Expenses.Add(tx.Amount)
	}
	return points
}

// RecentTransactions returns up to limit transactions, newest first
func RecentTransactions(transactions []domain.Transaction, limit int) []domain.Transaction {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	sorted := append(make([]domain.Transaction, 0, len(transactions)), transactions...)
	SortByDateDesc(sorted)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// SearchTransactions matches query case-insensitively against the
// description, category name and notes. An empty query matches everything.
func SearchTransactions(transactions []domain.Transaction, query string) []domain.Transaction {
	query = strings.ToLower(strings.TrimSpace(query))
	matched := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if query == "" ||
			strings.Contains(strings.ToLower(tx.Description), query) ||
			strings.Contains(strings.ToLower(tx.CategoryName), query) ||
			strings.Contains(strings.ToLower(tx.Notes), query) {
			matched = append(matched, tx)
		}
	}
	return matched
}

// SortByDateDesc orders transactions newest first, keeping insertion order for ties
func SortByDateDesc(transactions []domain.Transaction) {
	slices.SortStableFunc(transactions, func(a, b domain.Transaction) int {
		return b.Date.Compare(a.Date)
	})
}
