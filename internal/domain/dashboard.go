package domain

import "github.com/shopspring/decimal"

// Dashboard defaults
const (
	DefaultRecentTransactions = 5
	MaxRecentTransactions     = 50
	DefaultTrendMonths        = 6
	MaxTrendMonths            = 60
	DashboardCategoryLimit    = 8
)

// PercentageChanges compares the current month against the previous one.
// Values are percentages rounded to one decimal place.
type PercentageChanges struct {
	Balance  decimal.Decimal
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// DashboardSummary contains the main dashboard metrics
type DashboardSummary struct {
	Month              string // YYYY-MM
	TotalBalance       decimal.Decimal
	Income             decimal.Decimal
	Expenses           decimal.Decimal
	PreviousIncome     decimal.Decimal
	PreviousExpenses   decimal.Decimal
	PercentageChanges  PercentageChanges
	RecentTransactions []*Transaction
}

// MonthlyExpenseTrend is the expense total of one month
type MonthlyExpenseTrend struct {
	Month      string
	MonthLabel string
	Total      decimal.Decimal
	Count      int
	Average    decimal.Decimal
}
