package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name *string) (*domain.User, error)
	mu       sync.Mutex
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
		Name:    name,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockTransactionRepository is an in-memory domain.TransactionRepository.
// The Fn hooks replace the default behaviour when set.
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	ListFn       func(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error)
	TotalsFn     func(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.TransactionTotals, error)
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListCalls    int
	mu           sync.Mutex
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction stores a transaction as-is (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = transaction.Date
	}
	m.Transactions[transaction.ID] = transaction
}

// List returns matching transactions ordered by date, then creation time, newest first
func (m *MockTransactionRepository) List(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(userID, filters)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := m.matching(userID, filters)
	if filters != nil {
		if filters.Offset > 0 {
			if int(filters.Offset) >= len(result) {
				return []*domain.Transaction{}, nil
			}
			result = result[filters.Offset:]
		}
		if filters.Limit > 0 && len(result) > int(filters.Limit) {
			result = result[:filters.Limit]
		}
	}
	return result, nil
}

// Count returns the number of matching transactions
func (m *MockTransactionRepository) Count(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (int64, error) {
	return int64(len(m.matching(userID, filters))), nil
}

// Totals sums matching transactions by type
func (m *MockTransactionRepository) Totals(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.TransactionTotals, error) {
	if m.TotalsFn != nil {
		return m.TotalsFn(userID, filters)
	}

	totals := &domain.TransactionTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range m.matching(userID, filters) {
		if t.Type == domain.TransactionTypeIncome {
			totals.Income = totals.Income.Add(t.Amount)
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
		}
		totals.Count++
	}
	return totals, nil
}

// GetByID retrieves one of the user's transactions
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

// Create stores a new transaction with a generated ID
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *transaction
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Transactions[created.ID] = &created
	return &created, nil
}

// Update replaces an existing transaction owned by the same user
func (m *MockTransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return nil, domain.ErrTransactionNotFound
	}
	updated := *transaction
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	m.Transactions[updated.ID] = &updated
	return &updated, nil
}

// Delete removes one of the user's transactions
func (m *MockTransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok || t.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

func (m *MockTransactionRepository) matching(userID uuid.UUID, filters *domain.TransactionFilters) []*domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.Category != nil && t.Category != *filters.Category {
				continue
			}
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
				continue
			}
		}
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// PublishedEvent is one event captured by MockPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockPublisher records published WebSocket events
type MockPublisher struct {
	Events []PublishedEvent
	mu     sync.Mutex
}

// Publish records the event
func (p *MockPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the recorded event types in publish order
func (p *MockPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Event.Type
	}
	return types
}

// FakeClock is a util.Clock that only moves when told to
type FakeClock struct {
	now time.Time
	mu  sync.Mutex
}

// NewFakeClock creates a clock frozen at now
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the frozen time
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
