package handler

import (
	"net/http"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	store            *service.EntityStore
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, store *service.EntityStore) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		store:            store,
	}
}

// DateRangeRequest is the body for changing the active date range
type DateRangeRequest struct {
	From string `json:"from" example:"2026-04-19"`
	To   string `json:"to" example:"2026-10-19"`
}

// DateRangeResponse is a day-granular date range
type DateRangeResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TotalsResponse holds the scalar dashboard figures
type TotalsResponse struct {
	TotalExpenses         string `json:"totalExpenses"`
	TotalIncome           string `json:"totalIncome"`
	TotalBalance          string `json:"totalBalance"`
	TotalBudget           string `json:"totalBudget"`
	BudgetBalance         string `json:"budgetBalance"`
	BudgetUsagePercentage string `json:"budgetUsagePercentage"`
}

// CategoryAmountResponse is one slice of a by-category breakdown
type CategoryAmountResponse struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Value      string `json:"value"`
}

// CategoryShareResponse is a non-zero slice with its percentage
type CategoryShareResponse struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Value      string `json:"value"`
	Percent    string `json:"percent"`
}

// IncomeExpensePointResponse is one bucket of the expense-vs-income chart
type IncomeExpensePointResponse struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Expenses string `json:"expenses"`
	Income   string `json:"income"`
}

// IncomeExpenseSeriesResponse is the expense-vs-income chart
type IncomeExpenseSeriesResponse struct {
	Granularity string                       `json:"granularity"`
	Points      []IncomeExpensePointResponse `json:"points"`
}

// BudgetComparisonResponse is one expense-vs-budget row
type BudgetComparisonResponse struct {
	BudgetID        string `json:"budgetId"`
	CategoryID      string `json:"categoryId"`
	Name            string `json:"name"`
	Expense         string `json:"expense"`
	Budget          string `json:"budget"`
	Remaining       string `json:"remaining"`
	UsagePercentage string `json:"usagePercentage"`
	OverBudget      bool   `json:"overBudget"`
}

// MonthlyTrendPointResponse is one month of the budget trend
type MonthlyTrendPointResponse struct {
	Month    string `json:"month"`
	Expenses string `json:"expenses"`
	Budget   string `json:"budget"`
}

// DashboardResponse is the complete read model
type DashboardResponse struct {
	Version              uint64                      `json:"version"`
	DateRange            DateRangeResponse           `json:"dateRange"`
	Totals               TotalsResponse              `json:"totals"`
	FilteredTransactions []TransactionResponse       `json:"filteredTransactions"`
	RecentTransactions   []TransactionResponse       `json:"recentTransactions"`
	ExpensesByCategory   []CategoryAmountResponse    `json:"expensesByCategory"`
	IncomeByCategory     []CategoryAmountResponse    `json:"incomeByCategory"`
	ExpenseShares        []CategoryShareResponse     `json:"expenseShares"`
	ExpenseVsIncome      IncomeExpenseSeriesResponse `json:"expenseVsIncome"`
	ExpenseVsBudget      []BudgetComparisonResponse  `json:"expenseVsBudget"`
	MonthlyTrend         []MonthlyTrendPointResponse `json:"monthlyTrend"`
	Transactions         []TransactionResponse       `json:"transactions"`
	Budgets              []BudgetResponse            `json:"budgets"`
	ExpenseCategories    []CategoryResponse          `json:"expenseCategories"`
	IncomeCategories     []CategoryResponse          `json:"incomeCategories"`
	PaymentMethods       []PaymentMethodResponse     `json:"paymentMethods"`
}

// GetDashboard godoc
// @Summary Get the dashboard
// @Description Filtered transactions, every chart aggregation, entity lists and totals for the active date range. from/to override the range for this request only.
// @Tags dashboard
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} DashboardResponse
// @Failure 400 {object} ProblemDetails
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	override, errs := parseRangeQuery(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid date range", errs)
	}

	dashboard, err := h.dashboardService.GetDashboard(override)
	if err != nil {
		return handleError(c, err, "Dashboard not found")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(dashboard))
}

// GetDateRange godoc
// @Summary Get the active date range
// @Tags dashboard
// @Produce json
// @Success 200 {object} DateRangeResponse
// @Router /dashboard/date-range [get]
func (h *DashboardHandler) GetDateRange(c echo.Context) error {
	return c.JSON(http.StatusOK, toDateRangeResponse(h.store.DateRange()))
}

// SetDateRange godoc
// @Summary Set the active date range
// @Description Both bounds are inclusive days
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body DateRangeRequest true "Date range"
// @Success 200 {object} DateRangeResponse
// @Failure 400 {object} ProblemDetails
// @Router /dashboard/date-range [put]
func (h *DashboardHandler) SetDateRange(c echo.Context) error {
	var req DateRangeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	r, errs := parseRange(req.From, req.To)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid date range", errs)
	}

	applied, err := h.store.SetDateRange(*r)
	if err != nil {
		return handleError(c, err, "")
	}

	log.Info().Str("from", formatDay(applied.From)).Str("to", formatDay(applied.To)).Msg("Date range changed")
	return c.JSON(http.StatusOK, toDateRangeResponse(applied))
}

// ResetDateRange godoc
// @Summary Reset the active date range
// @Description Restores the trailing six months ending today
// @Tags dashboard
// @Produce json
// @Success 200 {object} DateRangeResponse
// @Router /dashboard/date-range [delete]
func (h *DashboardHandler) ResetDateRange(c echo.Context) error {
	return c.JSON(http.StatusOK, toDateRangeResponse(h.store.ResetDateRange()))
}

func toDateRangeResponse(r domain.DateRange) DateRangeResponse {
	return DateRangeResponse{From: formatDay(r.From), To: formatDay(r.To)}
}

func toDashboardResponse(d *domain.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Version:   d.Version,
		DateRange: toDateRangeResponse(d.DateRange),
		Totals: TotalsResponse{
			TotalExpenses:         d.Totals.TotalExpenses.StringFixed(2),
			TotalIncome:           d.Totals.TotalIncome.StringFixed(2),
			TotalBalance:          d.Totals.TotalBalance.StringFixed(2),
			TotalBudget:           d.Totals.TotalBudget.StringFixed(2),
			BudgetBalance:         d.Totals.BudgetBalance.StringFixed(2),
			BudgetUsagePercentage: d.Totals.BudgetUsagePercentage.StringFixed(1),
		},
		FilteredTransactions: toTransactionResponses(d.FilteredTransactions),
		RecentTransactions:   toTransactionResponses(d.RecentTransactions),
		ExpensesByCategory:   toCategoryAmountResponses(d.ExpensesByCategory),
		IncomeByCategory:     toCategoryAmountResponses(d.IncomeByCategory),
		ExpenseShares:        make([]CategoryShareResponse, len(d.ExpenseShares)),
		ExpenseVsIncome: IncomeExpenseSeriesResponse{
			Granularity: string(d.ExpenseVsIncome.Granularity),
			Points:      make([]IncomeExpensePointResponse, len(d.ExpenseVsIncome.Points)),
		},
		ExpenseVsBudget:   make([]BudgetComparisonResponse, len(d.ExpenseVsBudget)),
		MonthlyTrend:      make([]MonthlyTrendPointResponse, len(d.MonthlyTrend)),
		Transactions:      toTransactionResponses(d.Transactions),
		Budgets:           make([]BudgetResponse, len(d.Budgets)),
		ExpenseCategories: toCategoryResponses(d.ExpenseCategories),
		IncomeCategories:  toCategoryResponses(d.IncomeCategories),
		PaymentMethods:    make([]PaymentMethodResponse, len(d.PaymentMethods)),
	}

	for i, s := range d.ExpenseShares {
		resp.ExpenseShares[i] = CategoryShareResponse{
			CategoryID: s.CategoryID,
			Name:       s.Name,
			Value:      s.Value.StringFixed(2),
			Percent:    s.Percent.StringFixed(1),
		}
	}
	for i, p := range d.ExpenseVsIncome.Points {
		resp.ExpenseVsIncome.Points[i] = IncomeExpensePointResponse{
			Name:     p.Name,
			Date:     p.Date.Format(time.RFC3339),
			Expenses: p.Expenses.StringFixed(2),
			Income:   p.Income.StringFixed(2),
		}
	}
	for i, row := range d.ExpenseVsBudget {
		resp.ExpenseVsBudget[i] = BudgetComparisonResponse{
			BudgetID:        row.BudgetID,
			CategoryID:      row.CategoryID,
			Name:            row.Name,
			Expense:         row.Expense.StringFixed(2),
			Budget:          row.Budget.StringFixed(2),
			Remaining:       row.Remaining.StringFixed(2),
			UsagePercentage: row.UsagePercentage.StringFixed(1),
			OverBudget:      row.OverBudget,
		}
	}
	for i, p := range d.MonthlyTrend {
		resp.MonthlyTrend[i] = MonthlyTrendPointResponse{
			Month:    p.Month,
			Expenses: p.Expenses.StringFixed(2),
			Budget:   p.Budget.StringFixed(2),
		}
	}
	for i, b := range d.Budgets {
		resp.Budgets[i] = toBudgetResponse(b)
	}
	for i, m := range d.PaymentMethods {
		resp.PaymentMethods[i] = PaymentMethodResponse{ID: m.ID, Name: m.Name}
	}
	return resp
}

func toCategoryAmountResponses(amounts []domain.CategoryAmount) []CategoryAmountResponse {
	response := make([]CategoryAmountResponse, len(amounts))
	for i, a := range amounts {
		response[i] = CategoryAmountResponse{
			CategoryID: a.CategoryID,
			Name:       a.Name,
			Value:      a.Value.StringFixed(2),
		}
	}
	return response
}
