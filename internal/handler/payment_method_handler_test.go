package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethodLifecycle(t *testing.T) {
	s := newTestServer(t)
	food, _, card := s.seed(t)

	rec := s.do(http.MethodPost, "/api/v1/payment-methods", `{"name":"CARD"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "already_exists", decode[PaymentMethodResponse](t, rec).Status)

	rec = s.do(http.MethodPost, "/api/v1/payment-methods", `{"name":"Cash"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/payment-methods/"+card, `{"name":"cash"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/transactions",
		fmt.Sprintf(`{"type":"expense","amount":"5","description":"Bread","category":%q,"date":"2026-10-10","paymentMethod":%q}`, food, card))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/payment-methods/"+card, `{"name":"Debit card"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Debit card", decode[PaymentMethodResponse](t, rec).Name)

	rec = s.do(http.MethodDelete, "/api/v1/payment-methods/"+card, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/payment-methods", "")
	require.Equal(t, http.StatusOK, rec.Code)
	methods := decode[[]PaymentMethodResponse](t, rec)
	require.Len(t, methods, 1)
	assert.Equal(t, "Cash", methods[0].Name)

	// The transaction keeps its reference and stored name
	tx := s.store.Transactions()[0]
	assert.Equal(t, card, tx.PaymentMethod)
	assert.Equal(t, "Card", tx.PaymentMethodName)
}

func TestUpdatePaymentMethod_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/api/v1/payment-methods/missing", `{"name":"Cash"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/payment-methods/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
