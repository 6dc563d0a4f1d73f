package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/amqp"
	"github.com/bolsillo/bolsillo-backend/internal/config"
	"github.com/bolsillo/bolsillo-backend/internal/handler"
	"github.com/bolsillo/bolsillo-backend/internal/middleware"
	"github.com/bolsillo/bolsillo-backend/internal/repository"
	"github.com/bolsillo/bolsillo-backend/internal/service"
	"github.com/bolsillo/bolsillo-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Bolsillo API
// @version 1.0
// @description Personal finance dashboard: transactions, budgets, categories and aggregated views.
// @BasePath /api/v1
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Open the key-value backend
	backend, err := repository.OpenKVBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("Failed to open storage backend")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage backend")
		}
	}()
	log.Info().Str("backend", cfg.StorageBackend).Msg("Storage backend ready")

	// Change feed: websocket clients, plus the broker when configured
	hub := websocket.NewHub()
	var publisher websocket.EventPublisher = hub
	if cfg.AMQPURL != "" {
		amqpPublisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		defer func() {
			if err := amqpPublisher.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close AMQP publisher")
			}
		}()
		publisher = websocket.MultiPublisher{hub, amqpPublisher}
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("Publishing changes to AMQP")
	}

	// Initialize services
	persistence := service.NewPersistenceAdapter(backend, cfg.PersistTimeout)
	store := service.NewEntityStore(persistence, publisher)
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load persisted data")
	}
	dashboardService := service.NewDashboardService(store)

	// Initialize handlers
	handlers := handler.Handlers{
		Transaction:   handler.NewTransactionHandler(store, dashboardService),
		Budget:        handler.NewBudgetHandler(store),
		Category:      handler.NewCategoryHandler(store),
		PaymentMethod: handler.NewPaymentMethodHandler(store),
		Dashboard:     handler.NewDashboardHandler(dashboardService, store),
		WebSocket:     handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, handlers, middleware.RateLimitMiddleware(rateLimiter))

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
