package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

// april15 is the frozen "now" used across service tests
var april15 = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

func newTx(userID uuid.UUID, kind domain.TransactionType, amount, category string, when time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Type:        kind,
		Category:    category,
		Description: category,
		Date:        when,
	}
}
