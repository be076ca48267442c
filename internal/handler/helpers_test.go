package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/middleware"
)

var testNow = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

// setupAuthContext puts an authenticated user into the request context the
// way the auth middleware does
func setupAuthContext(c echo.Context, auth0ID string, userID uuid.UUID) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: auth0ID},
		CustomClaims:     &middleware.CustomClaims{Email: "test@example.com", Name: "Test User"},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// newRequest builds an authenticated echo context for target
func newRequest(method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != uuid.Nil {
		setupAuthContext(c, "auth0|test", userID)
	}
	return c, rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 9, 0, 0, 0, time.UTC)
}

func txFor(userID uuid.UUID, kind domain.TransactionType, amount, category string, when time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Type:        kind,
		Category:    category,
		Description: category + " purchase",
		Date:        when,
	}
}
