package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/middleware"
	"github.com/moneymate/moneymate-backend/internal/service"
	"github.com/moneymate/moneymate-backend/internal/util"
)

const timeLayout = time.RFC3339

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	loc                *time.Location
}

// NewTransactionHandler creates a new TransactionHandler. Dates are read in loc.
func NewTransactionHandler(transactionService *service.TransactionService, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{
		transactionService: transactionService,
		loc:                loc,
	}
}

// TransactionRequest represents the create and update request body. Amount
// accepts a JSON number or a decimal string.
type TransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        *string         `json:"date,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents one page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	input, verr := h.bindInput(c)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, *input)
	if err != nil {
		if verr := transactionValidationError(err); verr != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{*verr})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", transaction.ID.String()).Msg("Transaction created")
	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description Get paginated transactions with optional filters
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "Transaction type (income or expense)"
// @Param category query string false "Category"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(50)
// @Success 200 {object} PaginatedTransactionsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	dr, verr := parseDateRange(c, h.loc)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}
	filters := &domain.TransactionFilters{StartDate: dr.Start, EndDate: dr.End}

	if typeStr := c.QueryParam("type"); typeStr != "" {
		kind := domain.TransactionType(typeStr)
		if !kind.IsValid() {
			return fieldError(c, "type", "Type must be one of: income, expense")
		}
		filters.Type = &kind
	}
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		filters.Category = &category
	}

	page, verr := parseIntQuery(c, "page", 1, 1, 1<<30)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}
	pageSize, verr := parseIntQuery(c, "pageSize", domain.DefaultPageSize, 1, domain.MaxPageSize)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	result, err := h.transactionService.GetTransactions(c.Request().Context(), userID, filters, int32(page), int32(pageSize))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get transactions")
		return NewUpstreamError(c)
	}

	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       toTransactionResponses(result.Data),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewUpstreamError(c)
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body TransactionRequest true "Transaction"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	input, verr := h.bindInput(c)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, id, *input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if verr := transactionValidationError(err); verr != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{*verr})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fieldError(c, "id", "Must be a valid UUID")
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// bindInput decodes and converts the request body
func (h *TransactionHandler) bindInput(c echo.Context) (*service.TransactionInput, *ValidationError) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return nil, &ValidationError{Field: "body", Message: "Invalid request body"}
	}

	input := &service.TransactionInput{
		Amount:      req.Amount,
		Type:        domain.TransactionType(req.Type),
		Category:    req.Category,
		Description: req.Description,
	}

	if req.Date != nil && *req.Date != "" {
		parsed, err := parseDay(*req.Date, h.loc)
		if err != nil {
			return nil, &ValidationError{Field: "date", Message: "Must be in YYYY-MM-DD format"}
		}
		input.Date = &parsed
	}
	return input, nil
}

// transactionValidationError names the field behind a validation sentinel,
// or returns nil when err is not one
func transactionValidationError(err error) *ValidationError {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return &ValidationError{Field: "amount", Message: "Amount must be positive"}
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return &ValidationError{Field: "type", Message: "Type must be one of: income, expense"}
	case errors.Is(err, domain.ErrCategoryRequired):
		return &ValidationError{Field: "category", Message: "Category is required"}
	case errors.Is(err, domain.ErrCategoryTooLong):
		return &ValidationError{Field: "category", Message: "Category must be 100 characters or less"}
	case errors.Is(err, domain.ErrDescriptionRequired):
		return &ValidationError{Field: "description", Message: "Description is required"}
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return &ValidationError{Field: "description", Message: "Description must be 200 characters or less"}
	}
	return nil
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          transaction.ID.String(),
		Amount:      money(transaction.Amount),
		Type:        string(transaction.Type),
		Category:    transaction.Category,
		Description: transaction.Description,
		Date:        util.DayKey(transaction.Date),
		CreatedAt:   transaction.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:   transaction.UpdatedAt.UTC().Format(timeLayout),
	}
}

func toTransactionResponses(transactions []*domain.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = toTransactionResponse(t)
	}
	return result
}
