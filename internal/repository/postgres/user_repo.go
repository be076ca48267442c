package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

const userColumns = `id, auth0_id, email, name, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uuidToPg(id))
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
}

// CreateOrGetByAuth0ID creates a new user or returns the existing one (upsert on login)
func (r *UserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name *string) (*domain.User, error) {
	query := `
		INSERT INTO users (auth0_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (auth0_id) DO UPDATE
			SET email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			    name = COALESCE(EXCLUDED.name, users.name),
			    updated_at = NOW()
		RETURNING ` + userColumns

	user, err := r.getOne(ctx, query, auth0ID, email, stringPtrToPgText(name))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.CollectableRow) (*domain.User, error) {
	var (
		u    domain.User
		id   pgtype.UUID
		name pgtype.Text
	)
	if err := row.Scan(&id, &u.Auth0ID, &u.Email, &name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = pgToUUID(id)
	u.Name = pgTextToStringPtr(name)
	return &u, nil
}
