package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/service"
	"github.com/bolsillo/bolsillo-backend/internal/testutil"
	"github.com/bolsillo/bolsillo-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

type testServer struct {
	e         *echo.Echo
	store     *service.EntityStore
	kv        *testutil.MockKeyValueStore
	publisher *testutil.MockPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	kv := testutil.NewMockKeyValueStore()
	publisher := testutil.NewMockPublisher()
	store := service.NewEntityStore(service.NewPersistenceAdapter(kv, time.Second), publisher)
	store.SetClock(func() time.Time { return fixedNow })
	dashboard := service.NewDashboardService(store)

	e := echo.New()
	RegisterRoutes(e, Handlers{
		Transaction:   NewTransactionHandler(store, dashboard),
		Budget:        NewBudgetHandler(store),
		Category:      NewCategoryHandler(store),
		PaymentMethod: NewPaymentMethodHandler(store),
		Dashboard:     NewDashboardHandler(dashboard, store),
		WebSocket:     NewWebSocketHandler(websocket.NewHub(), testAllowedOrigins),
	})

	return &testServer{e: e, store: store, kv: kv, publisher: publisher}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// seed creates the Food/Salary/Card fixture through the API and returns their ids
func (s *testServer) seed(t *testing.T) (food, salary, card string) {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/categories/expense", `{"name":"Food"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	food = decode[CategoryResponse](t, rec).ID

	rec = s.do(http.MethodPost, "/api/v1/categories/income", `{"name":"Salary"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	salary = decode[CategoryResponse](t, rec).ID

	rec = s.do(http.MethodPost, "/api/v1/payment-methods", `{"name":"Card"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	card = decode[PaymentMethodResponse](t, rec).ID
	return food, salary, card
}
