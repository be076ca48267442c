package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/middleware"
	"github.com/moneymate/moneymate-backend/internal/service"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// PercentageChangesResponse compares the current month against the previous one
type PercentageChangesResponse struct {
	Balance  float64 `json:"balance"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	Month              string                    `json:"month"`
	TotalBalance       float64                   `json:"totalBalance"`
	Income             float64                   `json:"income"`
	Expenses           float64                   `json:"expenses"`
	PreviousIncome     float64                   `json:"previousIncome"`
	PreviousExpenses   float64                   `json:"previousExpenses"`
	PercentageChanges  PercentageChangesResponse `json:"percentageChanges"`
	RecentTransactions []TransactionResponse     `json:"recentTransactions"`
}

// ExpenseTrendResponse is the expense total of one month
type ExpenseTrendResponse struct {
	Month      string  `json:"month"`
	MonthLabel string  `json:"monthLabel"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Average    float64 `json:"average"`
}

// GetSummary godoc
// @Summary Dashboard summary
// @Description Current month totals, comparison with last month, balance and recent transactions
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardSummaryResponse
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	summary, err := h.dashboardService.GetSummary(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get dashboard summary")
		return NewUpstreamError(c)
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		Month:            summary.Month,
		TotalBalance:     money(summary.TotalBalance),
		Income:           money(summary.Income),
		Expenses:         money(summary.Expenses),
		PreviousIncome:   money(summary.PreviousIncome),
		PreviousExpenses: money(summary.PreviousExpenses),
		PercentageChanges: PercentageChangesResponse{
			Balance:  percent(summary.PercentageChanges.Balance),
			Income:   percent(summary.PercentageChanges.Income),
			Expenses: percent(summary.PercentageChanges.Expenses),
		},
		RecentTransactions: toTransactionResponses(summary.RecentTransactions),
	})
}

// GetRecentTransactions godoc
// @Summary Recent transactions
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of transactions" default(5)
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /dashboard/transactions/recent [get]
func (h *DashboardHandler) GetRecentTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	limit, verr := parseIntQuery(c, "limit", domain.DefaultRecentTransactions, 1, domain.MaxRecentTransactions)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	txs, err := h.dashboardService.GetRecentTransactions(c.Request().Context(), userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Int("limit", limit).Msg("Failed to get recent transactions")
		return NewUpstreamError(c)
	}

	return c.JSON(http.StatusOK, toTransactionResponses(txs))
}

// GetExpenseTrends godoc
// @Summary Monthly expense trends
// @Description Expense total, count and average per month, empty months included
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months" default(6)
// @Success 200 {array} ExpenseTrendResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /dashboard/expense-trends [get]
func (h *DashboardHandler) GetExpenseTrends(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	months, verr := parseIntQuery(c, "months", domain.DefaultTrendMonths, 1, domain.MaxTrendMonths)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	trends, err := h.dashboardService.GetExpenseTrends(c.Request().Context(), userID, months)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonthsWindow) {
			return fieldError(c, "months", "Must be between 1 and 60")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("months", months).Msg("Failed to get expense trends")
		return NewUpstreamError(c)
	}

	result := make([]ExpenseTrendResponse, len(trends))
	for i, t := range trends {
		result[i] = ExpenseTrendResponse{
			Month:      t.Month,
			MonthLabel: t.MonthLabel,
			Total:      money(t.Total),
			Count:      t.Count,
			Average:    money(t.Average),
		}
	}
	return c.JSON(http.StatusOK, result)
}

// GetExpenseCategories godoc
// @Summary Current month expense categories
// @Description The largest expense categories of the current month
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CategoryBreakdownResponse
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /dashboard/expense-categories [get]
func (h *DashboardHandler) GetExpenseCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	breakdown, err := h.dashboardService.GetExpenseCategories(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get expense categories")
		return NewUpstreamError(c)
	}

	return c.JSON(http.StatusOK, ToCategoryBreakdownResponse(*breakdown))
}
