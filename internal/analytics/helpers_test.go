package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

func tx(kind domain.TransactionType, category, amount string, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.New(),
		UserID:      uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Amount:      dec(amount),
		Type:        kind,
		Category:    category,
		Description: category + " " + amount,
		Date:        date,
	}
}

func expense(category, amount string, date time.Time) *domain.Transaction {
	return tx(domain.TransactionTypeExpense, category, amount, date)
}

func income(category, amount string, date time.Time) *domain.Transaction {
	return tx(domain.TransactionTypeIncome, category, amount, date)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}
