package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	store     *service.EntityStore
	dashboard *service.DashboardService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(store *service.EntityStore, dashboard *service.DashboardService) *TransactionHandler {
	return &TransactionHandler{
		store:     store,
		dashboard: dashboard,
	}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Type          string              `json:"type" example:"expense"`
	Amount        decimal.NullDecimal `json:"amount" swaggertype:"string" example:"120.00"`
	Description   string              `json:"description" example:"Groceries"`
	Category      string              `json:"category" example:"food-1729332000000"`
	Date          string              `json:"date" example:"2026-10-19"`
	PaymentMethod string              `json:"paymentMethod,omitempty" example:"cash-1729332000000"`
	Notes         string              `json:"notes,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	CategoryName      string `json:"categoryName"`
	Date              string `json:"date"`
	PaymentMethod     string `json:"paymentMethod,omitempty"`
	PaymentMethodName string `json:"paymentMethodName,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense transaction. Expenses require a payment method.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body TransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	input, errs, err := bindTransaction(c)
	if err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	result, err := h.store.AddTransaction(c.Request().Context(), input)
	if err != nil {
		return handleError(c, err, "Transaction not found")
	}

	log.Info().Str("transaction_id", result.Entity.ID).Str("type", string(result.Entity.Type)).Msg("Transaction created")
	return c.JSON(http.StatusCreated, toTransactionResponse(result.Entity))
}

// GetTransactions godoc
// @Summary List transactions
// @Description Transactions inside the active date range (or from/to), newest first, optionally filtered by a search term
// @Tags transactions
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param q query string false "Matches description, category name and notes"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	r, errs := parseRangeQuery(c)
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid date range", errs)
	}

	transactions, err := h.dashboard.ListTransactions(service.TransactionQuery{
		Range:  r,
		Search: c.QueryParam("q"),
	})
	if err != nil {
		return handleError(c, err, "Transactions not found")
	}

	return c.JSON(http.StatusOK, toTransactionResponses(transactions))
}

// GetRecentTransactions godoc
// @Summary List recent transactions
// @Description The newest transactions of the active date range
// @Tags transactions
// @Produce json
// @Param limit query int false "Maximum number of transactions" default(5)
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Router /transactions/recent [get]
func (h *TransactionHandler) GetRecentTransactions(c echo.Context) error {
	limit := service.DefaultRecentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "limit", Message: "Limit must be a positive integer"},
			})
		}
		limit = n
	}

	return c.JSON(http.StatusOK, toTransactionResponses(h.dashboard.RecentTransactions(limit)))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Replace a transaction's fields; category and payment method names are re-resolved
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body TransactionRequest true "Transaction update request"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id := c.Param("id")

	input, errs, err := bindTransaction(c)
	if err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	result, err := h.store.UpdateTransaction(c.Request().Context(), id, input)
	if err != nil {
		return handleError(c, err, "Transaction not found")
	}

	log.Info().Str("transaction_id", id).Msg("Transaction updated")
	return c.JSON(http.StatusOK, toTransactionResponse(result.Entity))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Permanently delete a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id := c.Param("id")

	if _, err := h.store.DeleteTransaction(c.Request().Context(), id); err != nil {
		return handleError(c, err, "Transaction not found")
	}

	log.Info().Str("transaction_id", id).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// bindTransaction decodes the body. A decode failure is returned as err;
// unparseable fields are returned as validation errors.
func bindTransaction(c echo.Context) (domain.TransactionInput, []ValidationError, error) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return domain.TransactionInput{}, nil, err
	}

	input := domain.TransactionInput{
		Type:          domain.TransactionType(req.Type),
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return input, []ValidationError{{Field: "date", Message: "Must be in YYYY-MM-DD format"}}, nil
		}
		input.Date = date
	}

	return input, nil, nil
}

func toTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                tx.ID,
		Type:              string(tx.Type),
		Amount:            tx.Amount.StringFixed(2),
		Description:       tx.Description,
		Category:          tx.Category,
		CategoryName:      tx.CategoryName,
		Date:              tx.Date.Format(time.RFC3339),
		PaymentMethod:     tx.PaymentMethod,
		PaymentMethodName: tx.PaymentMethodName,
		Notes:             tx.Notes,
	}
}

func toTransactionResponses(transactions []domain.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		response[i] = toTransactionResponse(tx)
	}
	return response
}
