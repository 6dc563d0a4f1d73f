package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	s := newTestServer(t)
	food, salary, card := s.seed(t)

	rec := s.do(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(`{"category":%q,"amount":"500"}`, food))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(http.MethodPost, "/api/v1/transactions",
		fmt.Sprintf(`{"type":"expense","amount":"120","description":"Groceries","category":%q,"date":"2026-10-10","paymentMethod":%q}`, food, card))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(http.MethodPost, "/api/v1/transactions",
		fmt.Sprintf(`{"type":"income","amount":"1000","description":"Salary","category":%q,"date":"2026-10-05"}`, salary))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/dashboard?from=2026-10-01&to=2026-10-31", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dashboard := decode[DashboardResponse](t, rec)
	assert.Equal(t, DateRangeResponse{From: "2026-10-01", To: "2026-10-31"}, dashboard.DateRange)
	assert.Equal(t, TotalsResponse{
		TotalExpenses:         "120.00",
		TotalIncome:           "1000.00",
		TotalBalance:          "880.00",
		TotalBudget:           "500.00",
		BudgetBalance:         "380.00",
		BudgetUsagePercentage: "24.0",
	}, dashboard.Totals)

	assert.Len(t, dashboard.FilteredTransactions, 2)
	assert.Equal(t, "Groceries", dashboard.RecentTransactions[0].Description)

	require.Len(t, dashboard.ExpensesByCategory, 1)
	assert.Equal(t, "Food", dashboard.ExpensesByCategory[0].Name)
	assert.Equal(t, "120.00", dashboard.ExpensesByCategory[0].Value)

	require.Len(t, dashboard.ExpenseShares, 1)
	assert.Equal(t, "100.0", dashboard.ExpenseShares[0].Percent)

	require.Len(t, dashboard.ExpenseVsBudget, 1)
	assert.Equal(t, "24.0", dashboard.ExpenseVsBudget[0].UsagePercentage)
	assert.False(t, dashboard.ExpenseVsBudget[0].OverBudget)

	assert.NotEmpty(t, dashboard.ExpenseVsIncome.Points)
	assert.Len(t, dashboard.Budgets, 1)
	assert.Len(t, dashboard.PaymentMethods, 1)
	assert.Len(t, dashboard.Transactions, 2)
}

func TestGetDashboard_OutsideRange(t *testing.T) {
	s := newTestServer(t)
	food, _, card := s.seed(t)

	rec := s.do(http.MethodPost, "/api/v1/transactions",
		fmt.Sprintf(`{"type":"expense","amount":"120","description":"Groceries","category":%q,"date":"2026-10-10","paymentMethod":%q}`, food, card))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/dashboard?from=2026-01-01&to=2026-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)

	dashboard := decode[DashboardResponse](t, rec)
	assert.Equal(t, "0.00", dashboard.Totals.TotalExpenses)
	assert.Empty(t, dashboard.FilteredTransactions)
	assert.Len(t, dashboard.Transactions, 1)
}

func TestGetDashboard_InvalidRange(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/dashboard?to=2026-01-31", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "from", decode[ProblemDetails](t, rec).Errors[0].Field)

	rec = s.do(http.MethodGet, "/api/v1/dashboard?from=2026-02-01&to=2026-01-31", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDateRangeEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/dashboard/date-range", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DateRangeResponse{From: "2026-04-19", To: "2026-10-19"}, decode[DateRangeResponse](t, rec))

	rec = s.do(http.MethodPut, "/api/v1/dashboard/date-range", `{"from":"2026-01-01","to":"2026-03-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, DateRangeResponse{From: "2026-01-01", To: "2026-03-31"}, decode[DateRangeResponse](t, rec))
	assert.Contains(t, s.publisher.Types(), "date_range.updated")

	rec = s.do(http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-01-01", decode[DashboardResponse](t, rec).DateRange.From)

	rec = s.do(http.MethodPut, "/api/v1/dashboard/date-range", `{"from":"2026-05-01","to":"2026-03-31"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "2026-01-01", decode[DateRangeResponse](t, s.do(http.MethodGet, "/api/v1/dashboard/date-range", "")).From)

	rec = s.do(http.MethodPut, "/api/v1/dashboard/date-range", `{"from":"2026-05-01"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "to", decode[ProblemDetails](t, rec).Errors[0].Field)

	rec = s.do(http.MethodDelete, "/api/v1/dashboard/date-range", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DateRangeResponse{From: "2026-04-19", To: "2026-10-19"}, decode[DateRangeResponse](t, rec))
}
