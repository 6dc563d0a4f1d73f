package handler

import (
	"net/http"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PaymentMethodHandler handles payment method requests
type PaymentMethodHandler struct {
	store *service.EntityStore
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(store *service.EntityStore) *PaymentMethodHandler {
	return &PaymentMethodHandler{store: store}
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// CreatePaymentMethod godoc
// @Summary Create a payment method
// @Description An existing payment method with the same name (case-insensitive) is returned with status already_exists
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param request body NameRequest true "Payment method name"
// @Success 201 {object} PaymentMethodResponse
// @Success 200 {object} PaymentMethodResponse "Already exists"
// @Failure 400 {object} ProblemDetails
// @Router /payment-methods [post]
func (h *PaymentMethodHandler) CreatePaymentMethod(c echo.Context) error {
	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.store.AddPaymentMethod(c.Request().Context(), req.Name)
	if err != nil {
		return handleError(c, err, "Payment method not found")
	}

	if result.Status == domain.StatusCreated {
		log.Info().Str("payment_method_id", result.Entity.ID).Msg("Payment method created")
	}
	return c.JSON(mutationStatus(result.Status), toPaymentMethodResult(result))
}

// GetPaymentMethods godoc
// @Summary List payment methods
// @Tags payment-methods
// @Produce json
// @Success 200 {array} PaymentMethodResponse
// @Router /payment-methods [get]
func (h *PaymentMethodHandler) GetPaymentMethods(c echo.Context) error {
	methods := h.store.PaymentMethods()
	response := make([]PaymentMethodResponse, len(methods))
	for i, m := range methods {
		response[i] = PaymentMethodResponse{ID: m.ID, Name: m.Name}
	}
	return c.JSON(http.StatusOK, response)
}

// UpdatePaymentMethod godoc
// @Summary Rename a payment method
// @Tags payment-methods
// @Accept json
// @Produce json
// @Param id path string true "Payment method ID"
// @Param request body NameRequest true "New name"
// @Success 200 {object} PaymentMethodResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /payment-methods/{id} [put]
func (h *PaymentMethodHandler) UpdatePaymentMethod(c echo.Context) error {
	id := c.Param("id")

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.store.UpdatePaymentMethod(c.Request().Context(), id, req.Name)
	if err != nil {
		return handleError(c, err, "Payment method not found")
	}
	if result.Status == domain.StatusRejected {
		return handleRejected(c, result.Reason)
	}

	log.Info().Str("payment_method_id", id).Msg("Payment method renamed")
	return c.JSON(http.StatusOK, toPaymentMethodResult(result))
}

// DeletePaymentMethod godoc
// @Summary Delete a payment method
// @Description Transactions keep their reference and stored name
// @Tags payment-methods
// @Param id path string true "Payment method ID"
// @Success 204 "No Content"
// @Failure 404 {object} ProblemDetails
// @Router /payment-methods/{id} [delete]
func (h *PaymentMethodHandler) DeletePaymentMethod(c echo.Context) error {
	id := c.Param("id")

	if _, err := h.store.DeletePaymentMethod(c.Request().Context(), id); err != nil {
		return handleError(c, err, "Payment method not found")
	}

	log.Info().Str("payment_method_id", id).Msg("Payment method deleted")
	return c.NoContent(http.StatusNoContent)
}

func toPaymentMethodResult(result domain.MutationResult[domain.PaymentMethod]) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:     result.Entity.ID,
		Name:   result.Entity.Name,
		Status: string(result.Status),
	}
}
