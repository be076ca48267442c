package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymate/moneymate-backend/internal/cache"
	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/service"
	"github.com/moneymate/moneymate-backend/internal/testutil"
)

func setupTransactionHandler() (*TransactionHandler, *testutil.MockTransactionRepository, *testutil.MockPublisher) {
	repo := testutil.NewMockTransactionRepository()
	clock := testutil.NewFakeClock(testNow)
	publisher := &testutil.MockPublisher{}
	svc := service.NewTransactionService(repo, cache.New(time.Minute, clock), clock, time.UTC)
	svc.SetEventPublisher(publisher)
	return NewTransactionHandler(svc, time.UTC), repo, publisher
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestCreateTransaction_Success(t *testing.T) {
	h, repo, publisher := setupTransactionHandler()
	userID := uuid.New()
	body := `{"amount": 12.5, "type": "expense", "category": " Food ", "description": "Lunch", "date": "2025-04-10"}`

	c, rec := newRequest(http.MethodPost, "/api/v1/transactions", body, userID)
	require.NoError(t, h.CreateTransaction(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp TransactionResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 12.5, resp.Amount)
	assert.Equal(t, "Food", resp.Category)
	assert.Equal(t, "2025-04-10", resp.Date)
	assert.Len(t, repo.Transactions, 1)
	assert.Equal(t, []string{"transaction.created", "analytics.invalidated"}, publisher.Types())
}

func TestCreateTransaction_AmountAsString(t *testing.T) {
	h, _, _ := setupTransactionHandler()
	body := `{"amount": "19.99", "type": "income", "category": "Gift", "description": "Birthday"}`

	c, rec := newRequest(http.MethodPost, "/api/v1/transactions", body, uuid.New())
	require.NoError(t, h.CreateTransaction(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp TransactionResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 19.99, resp.Amount)
	assert.Equal(t, "2025-04-15", resp.Date)
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"zero amount", `{"amount": 0, "type": "expense", "category": "Food", "description": "Lunch"}`, "amount"},
		{"negative amount", `{"amount": -3, "type": "expense", "category": "Food", "description": "Lunch"}`, "amount"},
		{"unknown type", `{"amount": 3, "type": "transfer", "category": "Food", "description": "Lunch"}`, "type"},
		{"blank category", `{"amount": 3, "type": "expense", "category": "   ", "description": "Lunch"}`, "category"},
		{"missing description", `{"amount": 3, "type": "expense", "category": "Food"}`, "description"},
		{"bad date", `{"amount": 3, "type": "expense", "category": "Food", "description": "Lunch", "date": "10/04/2025"}`, "date"},
		{"malformed body", `{"amount": `, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo, publisher := setupTransactionHandler()
			c, rec := newRequest(http.MethodPost, "/api/v1/transactions", tt.body, uuid.New())

			require.NoError(t, h.CreateTransaction(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			problem := decodeProblem(t, rec)
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
			assert.Empty(t, repo.Transactions)
			assert.Empty(t, publisher.Events)
		})
	}
}

func TestCreateTransaction_Unauthorized(t *testing.T) {
	h, _, _ := setupTransactionHandler()

	c, rec := newRequest(http.MethodPost, "/api/v1/transactions", `{}`, uuid.Nil)
	require.NoError(t, h.CreateTransaction(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetTransactions_FiltersAndPagination(t *testing.T) {
	h, repo, _ := setupTransactionHandler()
	userID := uuid.New()
	for i := 1; i <= 5; i++ {
		repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 4, i)))
	}
	repo.AddTransaction(txFor(userID, domain.TransactionTypeIncome, "100", "Salary", day(2025, 4, 3)))
	repo.AddTransaction(txFor(uuid.New(), domain.TransactionTypeExpense, "10", "Food", day(2025, 4, 3)))

	c, rec := newRequest(http.MethodGet, "/api/v1/transactions?type=expense&category=Food&page=2&pageSize=2", "", userID)
	require.NoError(t, h.GetTransactions(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp PaginatedTransactionsResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, int64(5), resp.TotalItems)
	assert.Equal(t, int32(3), resp.TotalPages)
	assert.Equal(t, int32(2), resp.Page)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "2025-04-03", resp.Data[0].Date)
	assert.Equal(t, "2025-04-02", resp.Data[1].Date)
}

func TestGetTransactions_DateRange(t *testing.T) {
	h, repo, _ := setupTransactionHandler()
	userID := uuid.New()
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 4, 1)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 4, 2)))
	repo.AddTransaction(txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 4, 3)))

	c, rec := newRequest(http.MethodGet, "/api/v1/transactions?startDate=2025-04-02&endDate=2025-04-02", "", userID)
	require.NoError(t, h.GetTransactions(c))

	var resp PaginatedTransactionsResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2025-04-02", resp.Data[0].Date)
}

func TestGetTransactions_InvalidParams(t *testing.T) {
	tests := []struct {
		query string
		field string
	}{
		{"type=transfer", "type"},
		{"page=0", "page"},
		{"pageSize=201", "pageSize"},
		{"startDate=yesterday", "startDate"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			h, _, _ := setupTransactionHandler()
			c, rec := newRequest(http.MethodGet, "/api/v1/transactions?"+tt.query, "", uuid.New())

			require.NoError(t, h.GetTransactions(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.field, decodeProblem(t, rec).Errors[0].Field)
		})
	}
}

func TestGetTransaction(t *testing.T) {
	h, repo, _ := setupTransactionHandler()
	userID := uuid.New()
	tx := txFor(userID, domain.TransactionTypeExpense, "42.10", "Books", day(2025, 4, 4))
	repo.AddTransaction(tx)

	c, rec := newRequest(http.MethodGet, "/api/v1/transactions/"+tx.ID.String(), "", userID)
	require.NoError(t, h.GetTransaction(withID(c, tx.ID.String())))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp TransactionResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, tx.ID.String(), resp.ID)
	assert.Equal(t, 42.1, resp.Amount)
}

func TestGetTransaction_OtherUser(t *testing.T) {
	h, repo, _ := setupTransactionHandler()
	tx := txFor(uuid.New(), domain.TransactionTypeExpense, "42.10", "Books", day(2025, 4, 4))
	repo.AddTransaction(tx)

	c, rec := newRequest(http.MethodGet, "/api/v1/transactions/"+tx.ID.String(), "", uuid.New())
	require.NoError(t, h.GetTransaction(withID(c, tx.ID.String())))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTransaction_InvalidID(t *testing.T) {
	h, _, _ := setupTransactionHandler()

	c, rec := newRequest(http.MethodGet, "/api/v1/transactions/abc", "", uuid.New())
	require.NoError(t, h.GetTransaction(withID(c, "abc")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", decodeProblem(t, rec).Errors[0].Field)
}

func TestUpdateTransaction(t *testing.T) {
	h, repo, publisher := setupTransactionHandler()
	userID := uuid.New()
	tx := txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 4, 4))
	repo.AddTransaction(tx)
	body := `{"amount": 15, "type": "expense", "category": "Dining", "description": "Dinner"}`

	c, rec := newRequest(http.MethodPut, "/api/v1/transactions/"+tx.ID.String(), body, userID)
	require.NoError(t, h.UpdateTransaction(withID(c, tx.ID.String())))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp TransactionResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 15.0, resp.Amount)
	assert.Equal(t, "Dining", resp.Category)
	assert.Equal(t, "2025-04-04", resp.Date)
	assert.Equal(t, []string{"transaction.updated", "analytics.invalidated"}, publisher.Types())
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	h, _, _ := setupTransactionHandler()
	id := uuid.New().String()
	body := `{"amount": 15, "type": "expense", "category": "Dining", "description": "Dinner"}`

	c, rec := newRequest(http.MethodPut, "/api/v1/transactions/"+id, body, uuid.New())
	require.NoError(t, h.UpdateTransaction(withID(c, id)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTransaction(t *testing.T) {
	h, repo, publisher := setupTransactionHandler()
	userID := uuid.New()
	tx := txFor(userID, domain.TransactionTypeExpense, "10", "Food", day(2025, 4, 4))
	repo.AddTransaction(tx)

	c, rec := newRequest(http.MethodDelete, "/api/v1/transactions/"+tx.ID.String(), "", userID)
	require.NoError(t, h.DeleteTransaction(withID(c, tx.ID.String())))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.Transactions)
	assert.Equal(t, []string{"transaction.deleted", "analytics.invalidated"}, publisher.Types())

	c, rec = newRequest(http.MethodDelete, "/api/v1/transactions/"+tx.ID.String(), "", userID)
	require.NoError(t, h.DeleteTransaction(withID(c, tx.ID.String())))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
