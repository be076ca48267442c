package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/cache"
	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/util"
	"github.com/moneymate/moneymate-backend/internal/websocket"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	cache           *cache.Cache
	clock           util.Clock
	loc             *time.Location
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, resultCache *cache.Cache, clock util.Clock, loc *time.Location) *TransactionService {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		cache:           resultCache,
		clock:           clock,
		loc:             loc,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// TransactionInput holds the fields accepted on create and update
type TransactionInput struct {
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Category    string
	Description string
	Date        *time.Time
}

// CreateTransaction validates and stores a new transaction
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	transaction, err := s.build(input)
	if err != nil {
		return nil, err
	}
	transaction.UserID = userID

	created, err := s.transactionRepo.Create(ctx, transaction)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return nil, err
	}

	s.afterWrite(userID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions returns one page of the user's transactions
func (s *TransactionService) GetTransactions(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters, page, pageSize int32) (*domain.PaginatedTransactions, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, domain.ErrInvalidDateRange
	}

	total, err := s.transactionRepo.Count(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	pageFilters := *filters
	pageFilters.Limit = pageSize
	pageFilters.Offset = (page - 1) * pageSize

	data, err := s.transactionRepo.List(ctx, userID, &pageFilters)
	if err != nil {
		return nil, err
	}

	totalPages := int32((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// GetTransactionByID retrieves one of the user's transactions
func (s *TransactionService) GetTransactionByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}

// UpdateTransaction validates and replaces an existing transaction
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID uuid.UUID, id uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// Keep the stored date when none is sent
	if input.Date == nil {
		input.Date = &existing.Date
	}

	transaction, err := s.build(input)
	if err != nil {
		return nil, err
	}
	transaction.ID = id
	transaction.UserID = userID

	updated, err := s.transactionRepo.Update(ctx, transaction)
	if err != nil {
		return nil, err
	}

	s.afterWrite(userID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes one of the user's transactions
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.afterWrite(userID, websocket.TransactionDeleted(map[string]string{"id": id.String()}))
	return nil
}

func (s *TransactionService) build(input TransactionInput) (*domain.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if utf8.RuneCountInString(category) > domain.MaxCategoryLength {
		return nil, domain.ErrCategoryTooLong
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	// Default to today in the configured calendar
	date := util.DayStart(s.clock.Now().In(s.loc))
	if input.Date != nil {
		date = *input.Date
	}

	return &domain.Transaction{
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    category,
		Description: description,
		Date:        date,
	}, nil
}

// afterWrite drops the user's cached analytics and notifies their clients
func (s *TransactionService) afterWrite(userID uuid.UUID, event websocket.Event) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
		s.eventPublisher.Publish(userID, websocket.AnalyticsInvalidated(map[string]string{"reason": event.Type}))
	}
}
