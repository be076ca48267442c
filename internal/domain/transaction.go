package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is one of the known transaction types
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Validation constants
const (
	MaxDescriptionLength = 200
	MaxCategoryLength    = 100
)

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TransactionFilters narrows a transaction query. Nil fields are not applied.
// StartDate and EndDate are both inclusive.
type TransactionFilters struct {
	Type      *TransactionType
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int32
	Offset    int32
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// TransactionTotals are sums over a filtered set of transactions
type TransactionTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int64
}

// TransactionRepository is the transaction store. List returns matching
// transactions ordered by date descending, then creation time descending.
// A zero Limit means no limit.
type TransactionRepository interface {
	List(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Count(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) (int64, error)
	Totals(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) (*TransactionTotals, error)
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Transaction, error)
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}
