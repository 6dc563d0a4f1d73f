package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBudget(t *testing.T) {
	s := newTestServer(t)
	food, _, _ := s.seed(t)

	rec := s.do(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(`{"category":%q,"amount":"500"}`, food))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	budget := decode[BudgetResponse](t, rec)
	assert.Equal(t, food, budget.Category)
	assert.Equal(t, "Food", budget.CategoryName)
	assert.Equal(t, "500.00", budget.Amount)
	assert.Contains(t, s.publisher.Types(), "budget.created")
}

func TestCreateBudget_DuplicateCategory(t *testing.T) {
	s := newTestServer(t)
	food, _, _ := s.seed(t)

	rec := s.do(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(`{"category":%q,"amount":"500"}`, food))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(`{"category":%q,"amount":"200"}`, food))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrorTypeConflict, decode[ProblemDetails](t, rec).Type)
	assert.Len(t, s.store.Budgets(), 1)
}

func TestCreateBudget_UnknownCategory(t *testing.T) {
	s := newTestServer(t)
	_, salary, _ := s.seed(t)

	// Income categories cannot carry budgets
	rec := s.do(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(`{"category":%q,"amount":"500"}`, salary))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	problem := decode[ProblemDetails](t, rec)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "category", problem.Errors[0].Field)
	assert.Empty(t, s.store.Budgets())
}

func TestCreateBudget_Validation(t *testing.T) {
	s := newTestServer(t)
	food, _, _ := s.seed(t)

	rec := s.do(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(`{"category":%q}`, food))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "amount", decode[ProblemDetails](t, rec).Errors[0].Field)

	rec = s.do(http.MethodPost, "/api/v1/budgets", `{"amount":"10"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category", decode[ProblemDetails](t, rec).Errors[0].Field)
}

func TestBudgetLookups(t *testing.T) {
	s := newTestServer(t)
	food, _, _ := s.seed(t)

	rec := s.do(http.MethodPost, "/api/v1/categories/expense", `{"name":"Rent"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rent := decode[CategoryResponse](t, rec).ID

	rec = s.do(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(`{"category":%q,"amount":"500"}`, food))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/budgets/category/"+food, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "500.00", decode[BudgetResponse](t, rec).Amount)

	rec = s.do(http.MethodGet, "/api/v1/budgets/category/"+rent, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/budgets/available-categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	available := decode[[]CategoryResponse](t, rec)
	require.Len(t, available, 1)
	assert.Equal(t, rent, available[0].ID)

	rec = s.do(http.MethodGet, "/api/v1/budgets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]BudgetResponse](t, rec), 1)
}

func TestUpdateAndDeleteBudget(t *testing.T) {
	s := newTestServer(t)
	food, _, _ := s.seed(t)

	created := decode[BudgetResponse](t, s.do(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(`{"category":%q,"amount":"500"}`, food)))

	rec := s.do(http.MethodPut, "/api/v1/budgets/"+created.ID, fmt.Sprintf(`{"category":%q,"amount":"650.5"}`, food))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "650.50", decode[BudgetResponse](t, rec).Amount)

	rec = s.do(http.MethodPut, "/api/v1/budgets/missing", fmt.Sprintf(`{"category":%q,"amount":"1"}`, food))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/budgets/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, s.store.Budgets())

	rec = s.do(http.MethodDelete, "/api/v1/budgets/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
