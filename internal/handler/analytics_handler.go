package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/middleware"
	"github.com/moneymate/moneymate-backend/internal/service"
)

// AnalyticsHandler handles analytics-related HTTP requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// SavingsPredictionRequest represents the savings prediction request body.
// Omitted fields default to 0, 0 and 12 months.
type SavingsPredictionRequest struct {
	ExpenseReduction *float64 `json:"expenseReduction,omitempty"`
	IncomeIncrease   *float64 `json:"incomeIncrease,omitempty"`
	Months           *int     `json:"months,omitempty"`
}

// GetCategoryBreakdown godoc
// @Summary Category breakdown
// @Description Totals per category for one transaction type
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param type query string false "income or expense" default(expense)
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Success 200 {object} CategoryBreakdownResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /analytics/categories [get]
func (h *AnalyticsHandler) GetCategoryBreakdown(c echo.Context) error {
	kind := domain.TransactionTypeExpense
	if t := c.QueryParam("type"); t != "" {
		kind = domain.TransactionType(t)
		if !kind.IsValid() {
			return fieldError(c, "type", "Type must be one of: income, expense")
		}
	}
	return h.categoryBreakdown(c, kind)
}

// GetExpensesByCategory godoc
// @Summary Expenses by category
// @Description Expense totals per category
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Success 200 {object} CategoryBreakdownResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /analytics/expenses-by-category [get]
func (h *AnalyticsHandler) GetExpensesByCategory(c echo.Context) error {
	return h.categoryBreakdown(c, domain.TransactionTypeExpense)
}

func (h *AnalyticsHandler) categoryBreakdown(c echo.Context, kind domain.TransactionType) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	dr, verr := parseDateRange(c, h.analyticsService.Location())
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	breakdown, err := h.analyticsService.GetCategoryBreakdown(c.Request().Context(), userID, kind, dr)
	if err != nil {
		return h.handleError(c, err, userID, "category breakdown")
	}

	return c.JSON(http.StatusOK, ToCategoryBreakdownResponse(*breakdown))
}

// GetTrends godoc
// @Summary Period trend
// @Description Income, expense and net per day, ISO week or month
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param granularity query string false "day, week or month" default(month)
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Success 200 {array} PeriodBucketResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /analytics/trends [get]
func (h *AnalyticsHandler) GetTrends(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	granularity := domain.GranularityMonth
	if g := c.QueryParam("granularity"); g != "" {
		granularity = domain.Granularity(g)
	}

	dr, verr := parseDateRange(c, h.analyticsService.Location())
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	buckets, err := h.analyticsService.GetPeriodTrend(c.Request().Context(), userID, granularity, dr)
	if err != nil {
		return h.handleError(c, err, userID, "period trend")
	}

	return c.JSON(http.StatusOK, ToPeriodTrendResponse(buckets))
}

// GetIncomeVsExpense godoc
// @Summary Income vs expense
// @Description Monthly income and expense for the last N months, current month included
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months" default(6)
// @Success 200 {array} PeriodBucketResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /analytics/income-vs-expense [get]
func (h *AnalyticsHandler) GetIncomeVsExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	months, verr := parseIntQuery(c, "months", service.DefaultIncomeVsExpenseMonths, 1, domain.MaxTrendMonths)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	buckets, err := h.analyticsService.GetIncomeVsExpense(c.Request().Context(), userID, months)
	if err != nil {
		return h.handleError(c, err, userID, "income vs expense")
	}

	return c.JSON(http.StatusOK, ToPeriodTrendResponse(buckets))
}

// GetReport godoc
// @Summary Comprehensive report
// @Description Totals, averages, category breakdowns and top expenses for a date range
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /analytics/report [get]
func (h *AnalyticsHandler) GetReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	dr, verr := parseDateRange(c, h.analyticsService.Location())
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	report, err := h.analyticsService.GetReport(c.Request().Context(), userID, dr)
	if err != nil {
		return h.handleError(c, err, userID, "report")
	}

	return c.JSON(http.StatusOK, ToReportResponse(report))
}

// PredictSavings godoc
// @Summary Savings prediction
// @Description Projects monthly savings from recent history under a what-if scenario
// @Tags analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SavingsPredictionRequest false "Scenario"
// @Success 200 {object} PredictionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /analytics/savings-prediction [post]
func (h *AnalyticsHandler) PredictSavings(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req SavingsPredictionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	scenario := ScenarioFromRequest(req)
	prediction, err := h.analyticsService.PredictSavings(c.Request().Context(), userID, scenario)
	if err != nil {
		return h.handleError(c, err, userID, "savings prediction")
	}

	return c.JSON(http.StatusOK, ToPredictionResponse(prediction))
}

// ScenarioFromRequest fills in defaults for omitted scenario fields
func ScenarioFromRequest(req SavingsPredictionRequest) domain.PredictionScenario {
	scenario := domain.PredictionScenario{
		ExpenseReductionPct: decimal.Zero,
		IncomeIncreasePct:   decimal.Zero,
		HorizonMonths:       domain.DefaultPredictionHorizon,
	}
	if req.ExpenseReduction != nil {
		scenario.ExpenseReductionPct = decimal.NewFromFloat(*req.ExpenseReduction)
	}
	if req.IncomeIncrease != nil {
		scenario.IncomeIncreasePct = decimal.NewFromFloat(*req.IncomeIncrease)
	}
	if req.Months != nil {
		scenario.HorizonMonths = *req.Months
	}
	return scenario
}

// GetUnusualSpending godoc
// @Summary Unusual spending
// @Description Expenses from the last 30 days that exceed three times their category average
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UnusualSpendingResponse
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /analytics/unusual-spending [get]
func (h *AnalyticsHandler) GetUnusualSpending(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	flagged, err := h.analyticsService.GetUnusualSpending(c.Request().Context(), userID)
	if err != nil {
		return h.handleError(c, err, userID, "unusual spending")
	}

	return c.JSON(http.StatusOK, ToUnusualSpendingResponse(flagged))
}

// handleError maps validation errors to field errors. Anything else is a
// store failure and is answered without details.
func (h *AnalyticsHandler) handleError(c echo.Context, err error, userID uuid.UUID, operation string) error {
	if verr := analyticsValidationError(err); verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	log.Error().Err(err).Str("user_id", userID.String()).Str("operation", operation).Msg("Failed to compute analytics")
	return NewUpstreamError(c)
}

func analyticsValidationError(err error) *ValidationError {
	switch {
	case errors.Is(err, domain.ErrInvalidExpenseReduction):
		return &ValidationError{Field: "expenseReduction", Message: "Must be between 0 and 100"}
	case errors.Is(err, domain.ErrInvalidIncomeIncrease):
		return &ValidationError{Field: "incomeIncrease", Message: "Must be between 0 and 100"}
	case errors.Is(err, domain.ErrInvalidHorizon):
		return &ValidationError{Field: "months", Message: "Must be between 1 and 120"}
	case errors.Is(err, domain.ErrInvalidGranularity):
		return &ValidationError{Field: "granularity", Message: "Must be one of: day, week, month"}
	case errors.Is(err, domain.ErrInvalidDateRange):
		return &ValidationError{Field: "startDate", Message: "Must not be after endDate"}
	case errors.Is(err, domain.ErrInvalidMonthsWindow):
		return &ValidationError{Field: "months", Message: "Must be between 1 and 60"}
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return &ValidationError{Field: "type", Message: "Type must be one of: income, expense"}
	}
	return nil
}
