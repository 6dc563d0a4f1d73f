package handler

import (
	"net/http"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles expense and income category requests.
// The :kind path segment selects the namespace.
type CategoryHandler struct {
	store *service.EntityStore
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(store *service.EntityStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// NameRequest is the body for creating or renaming a category or payment method
type NameRequest struct {
	Name string `json:"name" example:"Food"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// CreateCategory godoc
// @Summary Create a category
// @Description Create an expense or income category. An existing category with the same name (case-insensitive) is returned with status already_exists.
// @Tags categories
// @Accept json
// @Produce json
// @Param kind path string true "Category kind" Enums(expense, income)
// @Param request body NameRequest true "Category name"
// @Success 201 {object} CategoryResponse
// @Success 200 {object} CategoryResponse "Already exists"
// @Failure 400 {object} ProblemDetails
// @Router /categories/{kind} [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	kind, err := domain.ParseCategoryKind(c.Param("kind"))
	if err != nil {
		return handleError(c, err, "")
	}

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.store.AddCategory(c.Request().Context(), kind, req.Name)
	if err != nil {
		return handleError(c, err, "Category not found")
	}

	if result.Status == domain.StatusCreated {
		log.Info().Str("kind", string(kind)).Str("category_id", result.Entity.ID).Msg("Category created")
	}
	return c.JSON(mutationStatus(result.Status), toCategoryResult(result))
}

// GetCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param kind path string true "Category kind" Enums(expense, income)
// @Success 200 {array} CategoryResponse
// @Failure 400 {object} ProblemDetails
// @Router /categories/{kind} [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	kind, err := domain.ParseCategoryKind(c.Param("kind"))
	if err != nil {
		return handleError(c, err, "")
	}
	return c.JSON(http.StatusOK, toCategoryResponses(h.store.Categories(kind)))
}

// UpdateCategory godoc
// @Summary Rename a category
// @Description Renaming an expense category also renames its budgets. Existing transactions keep the name they were saved with.
// @Tags categories
// @Accept json
// @Produce json
// @Param kind path string true "Category kind" Enums(expense, income)
// @Param id path string true "Category ID"
// @Param request body NameRequest true "New name"
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories/{kind}/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	kind, err := domain.ParseCategoryKind(c.Param("kind"))
	if err != nil {
		return handleError(c, err, "")
	}
	id := c.Param("id")

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.store.UpdateCategory(c.Request().Context(), kind, id, req.Name)
	if err != nil {
		return handleError(c, err, "Category not found")
	}
	if result.Status == domain.StatusRejected {
		return handleRejected(c, result.Reason)
	}

	log.Info().Str("kind", string(kind)).Str("category_id", id).Msg("Category renamed")
	return c.JSON(http.StatusOK, toCategoryResult(result))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Deleting an expense category also deletes its budgets. Transactions are kept.
// @Tags categories
// @Param kind path string true "Category kind" Enums(expense, income)
// @Param id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /categories/{kind}/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	kind, err := domain.ParseCategoryKind(c.Param("kind"))
	if err != nil {
		return handleError(c, err, "")
	}
	id := c.Param("id")

	if _, err := h.store.DeleteCategory(c.Request().Context(), kind, id); err != nil {
		return handleError(c, err, "Category not found")
	}

	log.Info().Str("kind", string(kind)).Str("category_id", id).Msg("Category deleted")
	return c.NoContent(http.StatusNoContent)
}

func toCategoryResult(result domain.MutationResult[domain.Category]) CategoryResponse {
	return CategoryResponse{
		ID:     result.Entity.ID,
		Name:   result.Entity.Name,
		Status: string(result.Status),
	}
}

func toCategoryResponses(categories []domain.Category) []CategoryResponse {
	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return response
}
