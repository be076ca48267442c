package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymate/moneymate-backend/internal/cache"
	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/service"
	"github.com/moneymate/moneymate-backend/internal/testutil"
)

func setupDashboardHandler() (*DashboardHandler, *testutil.MockTransactionRepository) {
	repo := testutil.NewMockTransactionRepository()
	clock := testutil.NewFakeClock(testNow)
	svc := service.NewDashboardService(repo, cache.New(time.Minute, clock), clock, time.UTC, time.Second)
	return NewDashboardHandler(svc), repo
}

func TestDashboardHandler_GetSummary(t *testing.T) {
	h, repo := setupDashboardHandler()
	userID := uuid.New()
	repo.AddTransaction(txFor(userID, domain.TransactionTypeIncome, "1000", "Salary", day(2025, 4, 1)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "400", "Rent", day(2025, 4, 2)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeIncome, "800", "Salary", day(2025, 3, 1)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "200", "Food", day(2025, 3, 5)))

	c, rec := newRequest(http.MethodGet, "/api/v1/dashboard/summary", "", userID)
	require.NoError(t, h.GetSummary(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp DashboardSummaryResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "2025-04", resp.Month)
	assert.Equal(t, 1200.0, resp.TotalBalance)
	assert.Equal(t, 1000.0, resp.Income)
	assert.Equal(t, 400.0, resp.Expenses)
	assert.Equal(t, 800.0, resp.PreviousIncome)
	assert.Equal(t, 25.0, resp.PercentageChanges.Income)
	assert.Equal(t, 100.0, resp.PercentageChanges.Expenses)
	require.Len(t, resp.RecentTransactions, 4)
	assert.Equal(t, "Rent", resp.RecentTransactions[0].Category)
	assert.Equal(t, "2025-04-02", resp.RecentTransactions[0].Date)
}

func TestDashboardHandler_GetSummary_StoreFailure(t *testing.T) {
	h, repo := setupDashboardHandler()
	repo.TotalsFn = func(uuid.UUID, *domain.TransactionFilters) (*domain.TransactionTotals, error) {
		return nil, errors.New("connection refused")
	}

	c, rec := newRequest(http.MethodGet, "/api/v1/dashboard/summary", "", uuid.New())
	require.NoError(t, h.GetSummary(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Could not retrieve financial data", decodeProblem(t, rec).Detail)
}

func TestDashboardHandler_GetSummary_Unauthorized(t *testing.T) {
	h, _ := setupDashboardHandler()

	c, rec := newRequest(http.MethodGet, "/api/v1/dashboard/summary", "", uuid.Nil)
	require.NoError(t, h.GetSummary(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandler_GetRecentTransactions(t *testing.T) {
	h, repo := setupDashboardHandler()
	userID := uuid.New()
	for i := 1; i <= 8; i++ {
		repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 4, i)))
	}

	c, rec := newRequest(http.MethodGet, "/api/v1/dashboard/transactions/recent?limit=3", "", userID)
	require.NoError(t, h.GetRecentTransactions(c))

	var resp []TransactionResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp, 3)
	assert.Equal(t, "2025-04-08", resp[0].Date)

	c, rec = newRequest(http.MethodGet, "/api/v1/dashboard/transactions/recent", "", userID)
	require.NoError(t, h.GetRecentTransactions(c))
	decodeJSON(t, rec, &resp)
	assert.Len(t, resp, domain.DefaultRecentTransactions)
}

func TestDashboardHandler_GetRecentTransactions_InvalidLimit(t *testing.T) {
	tests := []string{"0", "51", "ten"}

	for _, limit := range tests {
		t.Run(limit, func(t *testing.T) {
			h, _ := setupDashboardHandler()
			c, rec := newRequest(http.MethodGet, "/api/v1/dashboard/transactions/recent?limit="+limit, "", uuid.New())

			require.NoError(t, h.GetRecentTransactions(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "limit", decodeProblem(t, rec).Errors[0].Field)
		})
	}
}

func TestDashboardHandler_GetExpenseTrends(t *testing.T) {
	h, repo := setupDashboardHandler()
	userID := uuid.New()
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "30", "Food", day(2025, 2, 3)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 2, 4)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 4, 4)))

	c, rec := newRequest(http.MethodGet, "/api/v1/dashboard/expense-trends?months=3", "", userID)
	require.NoError(t, h.GetExpenseTrends(c))

	var resp []ExpenseTrendResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp, 3)
	assert.Equal(t, "2025-02", resp[0].Month)
	assert.Equal(t, "Feb 2025", resp[0].MonthLabel)
	assert.Equal(t, 40.0, resp[0].Total)
	assert.Equal(t, 20.0, resp[0].Average)
	assert.Equal(t, 0, resp[1].Count)
	assert.Equal(t, 0.0, resp[1].Average)
}

func TestDashboardHandler_GetExpenseCategories(t *testing.T) {
	h, repo := setupDashboardHandler()
	userID := uuid.New()
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "75", "Rent", day(2025, 4, 1)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "25", "Food", day(2025, 4, 2)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "500", "Travel", day(2025, 3, 2)))

	c, rec := newRequest(http.MethodGet, "/api/v1/dashboard/expense-categories", "", userID)
	require.NoError(t, h.GetExpenseCategories(c))

	var resp CategoryBreakdownResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 100.0, resp.Total)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Rent", resp.Data[0].Category)
	assert.Equal(t, 75.0, resp.Data[0].Percentage)
}
