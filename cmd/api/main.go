package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/moneymate/moneymate-backend/internal/cache"
	"github.com/moneymate/moneymate-backend/internal/config"
	"github.com/moneymate/moneymate-backend/internal/handler"
	"github.com/moneymate/moneymate-backend/internal/middleware"
	"github.com/moneymate/moneymate-backend/internal/repository/postgres"
	"github.com/moneymate/moneymate-backend/internal/service"
	"github.com/moneymate/moneymate-backend/internal/util"
	"github.com/moneymate/moneymate-backend/internal/websocket"
)

// @title MoneyMate API
// @version 1.0
// @description Personal finance tracking and analytics API
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
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
	if err := cfg.Validate(true); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)

	// Result cache and its sweeper
	clock := util.SystemClock{}
	resultCache := cache.New(cfg.CacheTTL, clock)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	janitor := service.NewCacheJanitor(resultCache, log.Logger, cfg.CacheSweepSchedule)
	if err := janitor.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start cache janitor")
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo)
	transactionService := service.NewTransactionService(transactionRepo, resultCache, clock, cfg.Location)
	transactionService.SetEventPublisher(hub)
	analyticsService := service.NewAnalyticsService(transactionRepo, resultCache, clock, service.AnalyticsConfig{
		Location:                cfg.Location,
		StoreTimeout:            cfg.StoreTimeout,
		PredictionHistoryMonths: cfg.PredictionHistoryMonths,
	})
	dashboardService := service.NewDashboardService(transactionRepo, resultCache, clock, cfg.Location, cfg.StoreTimeout)

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	jwtValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket JWT validator")
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Analytics:   handler.NewAnalyticsHandler(analyticsService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Transaction: handler.NewTransactionHandler(transactionService, cfg.Location),
	}
	wsHandler := handler.NewWebSocketHandler(hub, jwtValidator, cfg.CORSOrigins)
	openAPIHandler := handler.NewOpenAPIHandler(handler.Server{URL: "/api/v1", Description: "Current host"})

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
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", openAPIHandler.ServeOpenAPI3Spec)

	// WebSocket authenticates with a query token
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("timezone", cfg.Location.String()).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	janitor.Stop()
	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
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

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
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
