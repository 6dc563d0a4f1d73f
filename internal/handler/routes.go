package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Transaction   *TransactionHandler
	Budget        *BudgetHandler
	Category      *CategoryHandler
	PaymentMethod *PaymentMethodHandler
	Dashboard     *DashboardHandler
	WebSocket     *WebSocketHandler
}

// RegisterRoutes sets up all API routes. apiMiddleware applies to /api/v1 only.
func RegisterRoutes(e *echo.Echo, h Handlers, apiMiddleware ...echo.MiddlewareFunc) {
	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)

	// Change feed
	e.GET("/ws", h.WebSocket.HandleWS)

	// API version 1
	api := e.Group("/api/v1", apiMiddleware...)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/recent", h.Transaction.GetRecentTransactions)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/available-categories", h.Budget.GetAvailableCategories)
	budgets.GET("/category/:categoryId", h.Budget.GetBudgetForCategory)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	// Category routes, :kind is expense or income
	categories := api.Group("/categories/:kind")
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	// Payment method routes
	paymentMethods := api.Group("/payment-methods")
	paymentMethods.POST("", h.PaymentMethod.CreatePaymentMethod)
	paymentMethods.GET("", h.PaymentMethod.GetPaymentMethods)
	paymentMethods.PUT("/:id", h.PaymentMethod.UpdatePaymentMethod)
	paymentMethods.DELETE("/:id", h.PaymentMethod.DeletePaymentMethod)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("", h.Dashboard.GetDashboard)
	dashboard.GET("/date-range", h.Dashboard.GetDateRange)
	dashboard.PUT("/date-range", h.Dashboard.SetDateRange)
	dashboard.DELETE("/date-range", h.Dashboard.ResetDateRange)
}
