package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Granularity is the time bucket resolution for period aggregation
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// IsValid reports whether g is a supported granularity
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// DateRange bounds a query. Nil ends are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// CategoryBucket is the total of one category within a breakdown
type CategoryBucket struct {
	Category   string
	Total      decimal.Decimal
	Count      int
	Percentage decimal.Decimal // share of the breakdown total, one decimal place
}

// CategoryBreakdown is an ordered set of category buckets and their grand total
type CategoryBreakdown struct {
	Buckets []CategoryBucket
	Total   decimal.Decimal
}

// PeriodBucket holds income and expense totals for one calendar period
type PeriodBucket struct {
	Key     string // YYYY-MM-DD, YYYY-Www or YYYY-MM
	Label   string
	Start   time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Count   int
}

// Prediction limits
const (
	MinPredictionHistoryMonths = 3
	DefaultPredictionHorizon   = 12
	MaxPredictionHorizon       = 120
	MaxPercentageAdjustment    = 100
)

// PredictionScenario is the set of hypothetical adjustments applied before projecting
type PredictionScenario struct {
	ExpenseReductionPct decimal.Decimal
	IncomeIncreasePct   decimal.Decimal
	HorizonMonths       int
}

// PredictionStatus explains whether a prediction could be produced
type PredictionStatus string

const (
	PredictionStatusOK               PredictionStatus = "ok"
	PredictionStatusNoData           PredictionStatus = "no_data"
	PredictionStatusInsufficientData PredictionStatus = "insufficient_data"
)

// HistoricalMonth is one observed month used as forecast input
type HistoricalMonth struct {
	Key     string
	Label   string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Savings decimal.Decimal
}

// PredictionHistory summarizes the months the forecast was built from.
// Trends are least-squares slopes per month.
type PredictionHistory struct {
	MonthsAnalyzed    int
	AvgMonthlyIncome  decimal.Decimal
	AvgMonthlyExpense decimal.Decimal
	AvgMonthlySavings decimal.Decimal
	IncomeTrend       decimal.Decimal
	ExpenseTrend      decimal.Decimal
	Months            []HistoricalMonth
}

// ScenarioResult echoes the scenario with the adjusted monthly averages
type ScenarioResult struct {
	ExpenseReductionPct decimal.Decimal
	IncomeIncreasePct   decimal.Decimal
	AdjustedAvgIncome   decimal.Decimal
	AdjustedAvgExpense  decimal.Decimal
}

// MonthlyPrediction is one projected month. MonthIndex starts at 1.
type MonthlyPrediction struct {
	MonthIndex        int
	MonthLabel        string
	ProjectedIncome   decimal.Decimal
	ProjectedExpense  decimal.Decimal
	MonthlySavings    decimal.Decimal
	CumulativeSavings decimal.Decimal
}

// PredictionMonthRef points at a projected month
type PredictionMonthRef struct {
	MonthIndex int
	MonthLabel string
	Savings    decimal.Decimal
}

// PredictionSummary aggregates the projected months
type PredictionSummary struct {
	TotalProjectedSavings decimal.Decimal
	AvgMonthlySavings     decimal.Decimal
	BestMonth             PredictionMonthRef
	WorstMonth            PredictionMonthRef
	MonthsPredicted       int
}

// Prediction is the forecaster result. When HasData is false only Status and
// Message are set.
type Prediction struct {
	HasData     bool
	Status      PredictionStatus
	Message     string
	Historical  *PredictionHistory
	Scenario    *ScenarioResult
	Predictions []MonthlyPrediction
	Summary     *PredictionSummary
}

// TopExpensesLimit is the number of expenses listed in a report
const TopExpensesLimit = 10

// TransactionCounts counts report transactions by kind
type TransactionCounts struct {
	Income  int
	Expense int
	Total   int
}

// ReportSummary holds report totals. Averages are zero when a kind has no transactions.
type ReportSummary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetAmount    decimal.Decimal
	Counts       TransactionCounts
	AvgIncome    decimal.Decimal
	AvgExpense   decimal.Decimal
}

// TopExpense is one of the largest expenses in a report
type TopExpense struct {
	ID          uuid.UUID
	Description string
	Category    string
	Amount      decimal.Decimal
	Date        time.Time
}

// Report is the consolidated analytics report for a date range
type Report struct {
	HasData          bool
	Summary          ReportSummary
	ExpenseBreakdown CategoryBreakdown
	IncomeBreakdown  CategoryBreakdown
	TopExpenses      []TopExpense
	DateRange        DateRange
}

// Unusual spending rule parameters
const (
	UnusualSpendingLookbackDays = 30
	UnusualSpendingMinSamples   = 3
	UnusualSpendingMultiplier   = 3
)

// UnusualSpending flags an expense far above its category average
type UnusualSpending struct {
	TransactionID   uuid.UUID
	Description     string
	Category        string
	Amount          decimal.Decimal
	Date            time.Time
	CategoryAverage decimal.Decimal
	Multiple        decimal.Decimal // Amount / CategoryAverage, one decimal place
}
