package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/moneymate/moneymate-backend/internal/middleware"
)

// Handlers bundles the route handlers registered under /api/v1
type Handlers struct {
	Auth        *AuthHandler
	Analytics   *AnalyticsHandler
	Dashboard   *DashboardHandler
	Transaction *TransactionHandler
}

// RegisterRoutes sets up all API routes. Every route requires a bearer token;
// analytics and dashboard reads are additionally rate limited per user.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())

	// Auth routes
	auth := api.Group("/auth")
	auth.GET("/me", h.Auth.Me)

	// Analytics routes
	analytics := api.Group("/analytics")
	analytics.Use(middleware.RateLimitMiddleware(rateLimiter))
	analytics.GET("/categories", h.Analytics.GetCategoryBreakdown)
	analytics.GET("/expenses-by-category", h.Analytics.GetExpensesByCategory)
	analytics.GET("/trends", h.Analytics.GetTrends)
	analytics.GET("/income-vs-expense", h.Analytics.GetIncomeVsExpense)
	analytics.GET("/report", h.Analytics.GetReport)
	analytics.POST("/savings-prediction", h.Analytics.PredictSavings)
	analytics.GET("/unusual-spending", h.Analytics.GetUnusualSpending)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.RateLimitMiddleware(rateLimiter))
	dashboard.GET("/summary", h.Dashboard.GetSummary)
	dashboard.GET("/transactions/recent", h.Dashboard.GetRecentTransactions)
	dashboard.GET("/expense-trends", h.Dashboard.GetExpenseTrends)
	dashboard.GET("/expense-categories", h.Dashboard.GetExpenseCategories)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
}
