package handler

import (
	"net/http"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	store *service.EntityStore
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(store *service.EntityStore) *BudgetHandler {
	return &BudgetHandler{store: store}
}

// BudgetRequest represents the create/update budget request body
type BudgetRequest struct {
	Category string              `json:"category" example:"food-1729332000000"`
	Amount   decimal.NullDecimal `json:"amount" swaggertype:"string" example:"500.00"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	CategoryName string `json:"categoryName"`
	Amount       string `json:"amount"`
}

// CreateBudget godoc
// @Summary Create a budget
// @Description Set a spending limit for an expense category. A category has at most one budget.
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body BudgetRequest true "Budget creation request"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.store.AddBudget(c.Request().Context(), domain.BudgetInput{
		Category: req.Category,
		Amount:   req.Amount,
	})
	if err != nil {
		return handleError(c, err, "Budget not found")
	}
	if result.Status == domain.StatusRejected {
		return handleRejected(c, result.Reason)
	}

	log.Info().Str("budget_id", result.Entity.ID).Str("category_id", result.Entity.Category).Msg("Budget created")
	return c.JSON(http.StatusCreated, toBudgetResponse(result.Entity))
}

// GetBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Success 200 {array} BudgetResponse
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	budgets := h.store.Budgets()
	response := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		response[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudgetForCategory godoc
// @Summary Get the budget of a category
// @Tags budgets
// @Produce json
// @Param categoryId path string true "Expense category ID"
// @Success 200 {object} BudgetResponse
// @Failure 404 {object} ProblemDetails
// @Router /budgets/category/{categoryId} [get]
func (h *BudgetHandler) GetBudgetForCategory(c echo.Context) error {
	budget, ok := h.store.BudgetForCategory(c.Param("categoryId"))
	if !ok {
		return NewNotFoundError(c, "Budget not found")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// GetAvailableCategories godoc
// @Summary List expense categories without a budget
// @Tags budgets
// @Produce json
// @Success 200 {array} CategoryResponse
// @Router /budgets/available-categories [get]
func (h *BudgetHandler) GetAvailableCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, toCategoryResponses(h.store.AvailableBudgetCategories()))
}

// UpdateBudget godoc
// @Summary Update a budget
// @Description Change a budget's amount or move it to another expense category
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body BudgetRequest true "Budget update request"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	id := c.Param("id")

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.store.UpdateBudget(c.Request().Context(), id, domain.BudgetInput{
		Category: req.Category,
		Amount:   req.Amount,
	})
	if err != nil {
		return handleError(c, err, "Budget not found")
	}
	if result.Status == domain.StatusRejected {
		return handleRejected(c, result.Reason)
	}

	log.Info().Str("budget_id", id).Msg("Budget updated")
	return c.JSON(http.StatusOK, toBudgetResponse(result.Entity))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param id path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id := c.Param("id")

	if _, err := h.store.DeleteBudget(c.Request().Context(), id); err != nil {
		return handleError(c, err, "Budget not found")
	}

	log.Info().Str("budget_id", id).Msg("Budget deleted")
	return c.NoContent(http.StatusNoContent)
}

func toBudgetResponse(b domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:           b.ID,
		Category:     b.Category,
		CategoryName: b.CategoryName,
		Amount:       b.Amount.StringFixed(2),
	}
}
