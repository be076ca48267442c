package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

const transactionColumns = `id, user_id, amount, type, category, description, date, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// List returns the user's transactions matching filters, newest first
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	where, args := buildTransactionWhere(userID, filters)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where +
		` ORDER BY date DESC, created_at DESC`
	if filters != nil && filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters != nil && filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	transactions, err := pgx.CollectRows(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return transactions, nil
}

// Count returns the number of the user's transactions matching filters.
// Limit and Offset are ignored.
func (r *TransactionRepository) Count(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (int64, error) {
	where, args := buildTransactionWhere(userID, filters)

	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// Totals sums income and expense over the user's transactions matching filters
func (r *TransactionRepository) Totals(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.TransactionTotals, error) {
	where, args := buildTransactionWhere(userID, filters)

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
			COUNT(*)
		FROM transactions
		WHERE ` + where

	var income, expense pgtype.Numeric
	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&income, &expense, &count); err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return &domain.TransactionTotals{
		Income:  pgNumericToDecimal(income),
		Expense: pgNumericToDecimal(expense),
		Count:   count,
	}, nil
}

// GetByID retrieves one of the user's transactions
func (r *TransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	rows, err := r.pool.Query(ctx, query, uuidToPg(id), uuidToPg(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	transaction, err := pgx.CollectExactlyOneRow(rows, scanTransaction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// Create inserts a transaction and returns the stored row
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		INSERT INTO transactions (user_id, amount, type, category, description, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + transactionColumns

	rows, err := r.pool.Query(ctx, query,
		uuidToPg(transaction.UserID),
		amount,
		string(transaction.Type),
		transaction.Category,
		transaction.Description,
		transaction.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

// Update overwrites the editable fields of one of the user's transactions
func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		UPDATE transactions
		SET amount = $3, type = $4, category = $5, description = $6, date = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + transactionColumns

	rows, err := r.pool.Query(ctx, query,
		uuidToPg(transaction.ID),
		uuidToPg(transaction.UserID),
		amount,
		string(transaction.Type),
		transaction.Category,
		transaction.Description,
		transaction.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, scanTransaction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return updated, nil
}

// Delete removes one of the user's transactions
func (r *TransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, uuidToPg(id), uuidToPg(userID))
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// buildTransactionWhere renders the filter predicates with positional args.
// The user predicate is always $1.
func buildTransactionWhere(userID uuid.UUID, filters *domain.TransactionFilters) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{uuidToPg(userID)}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters != nil {
		if filters.Type != nil {
			add("type = $%d", string(*filters.Type))
		}
		if filters.Category != nil {
			add("category = $%d", *filters.Category)
		}
		if filters.StartDate != nil {
			add("date >= $%d", *filters.StartDate)
		}
		if filters.EndDate != nil {
			add("date <= $%d", *filters.EndDate)
		}
	}

	return strings.Join(clauses, " AND "), args
}

func scanTransaction(row pgx.CollectableRow) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		id     pgtype.UUID
		userID pgtype.UUID
		amount pgtype.Numeric
		txType string
	)

	err := row.Scan(&id, &userID, &amount, &txType, &t.Category, &t.Description, &t.Date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.ID = pgToUUID(id)
	t.UserID = pgToUUID(userID)
	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	return &t, nil
}
