package domain

import "errors"

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// Transaction errors
var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be greater than 0")
	ErrInvalidTransactionType = errors.New("type must be one of: income, expense")
	ErrCategoryRequired       = errors.New("category is required")
	ErrCategoryTooLong        = errors.New("category exceeds maximum length")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
)

// Analytics errors
var (
	ErrInvalidExpenseReduction = errors.New("expense reduction must be between 0 and 100")
	ErrInvalidIncomeIncrease   = errors.New("income increase must be between 0 and 100")
	ErrInvalidHorizon          = errors.New("months must be between 1 and the maximum horizon")
	ErrInvalidGranularity      = errors.New("granularity must be one of: day, week, month")
	ErrInvalidDateRange        = errors.New("start date must not be after end date")
	ErrInvalidMonthsWindow     = errors.New("months must be between 1 and the maximum window")
)
