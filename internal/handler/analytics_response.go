package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/util"
)

// money renders a decimal as a plain JSON number with two decimal places
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func percent(d decimal.Decimal) float64 {
	return d.Round(1).InexactFloat64()
}

// CategoryBucketResponse is one category in a breakdown
type CategoryBucketResponse struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoryBreakdownResponse represents a category breakdown in API responses
type CategoryBreakdownResponse struct {
	Data  []CategoryBucketResponse `json:"data"`
	Total float64                  `json:"total"`
}

// PeriodBucketResponse is one period of a trend
type PeriodBucketResponse struct {
	PeriodKey   string  `json:"periodKey"`
	PeriodLabel string  `json:"periodLabel"`
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	Net         float64 `json:"net"`
	Count       int     `json:"count"`
}

// DateRangeResponse echoes the requested range. Open ends are omitted.
type DateRangeResponse struct {
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

// TransactionCountsResponse holds transaction counts by kind
type TransactionCountsResponse struct {
	Income  int `json:"income"`
	Expense int `json:"expense"`
	Total   int `json:"total"`
}

// ReportSummaryResponse holds the totals of a report
type ReportSummaryResponse struct {
	TotalIncome       float64                   `json:"totalIncome"`
	TotalExpense      float64                   `json:"totalExpense"`
	NetAmount         float64                   `json:"netAmount"`
	TransactionCounts TransactionCountsResponse `json:"transactionCounts"`
	AvgIncome         float64                   `json:"avgIncome"`
	AvgExpense        float64                   `json:"avgExpense"`
}

// TopExpenseResponse is one of the largest expenses of a report
type TopExpenseResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

// ReportResponse represents the comprehensive report
type ReportResponse struct {
	HasData          bool                      `json:"hasData"`
	Summary          ReportSummaryResponse     `json:"summary"`
	ExpenseBreakdown CategoryBreakdownResponse `json:"expenseBreakdown"`
	IncomeBreakdown  CategoryBreakdownResponse `json:"incomeBreakdown"`
	TopExpenses      []TopExpenseResponse      `json:"topExpenses"`
	DateRange        DateRangeResponse         `json:"dateRange"`
}

// HistoricalMonthResponse is one analysed month of a prediction
type HistoricalMonthResponse struct {
	Month      string  `json:"month"`
	MonthLabel string  `json:"monthLabel"`
	Income     float64 `json:"income"`
	Expense    float64 `json:"expense"`
	Savings    float64 `json:"savings"`
}

// PredictionHistoryResponse summarises the analysed history
type PredictionHistoryResponse struct {
	MonthsAnalyzed    int                       `json:"monthsAnalyzed"`
	AvgMonthlyIncome  float64                   `json:"avgMonthlyIncome"`
	AvgMonthlyExpense float64                   `json:"avgMonthlyExpense"`
	AvgMonthlySavings float64                   `json:"avgMonthlySavings"`
	IncomeTrend       float64                   `json:"incomeTrend"`
	ExpenseTrend      float64                   `json:"expenseTrend"`
	Months            []HistoricalMonthResponse `json:"months"`
}

// ScenarioResponse echoes the applied scenario and its adjusted averages
type ScenarioResponse struct {
	ExpenseReduction   float64 `json:"expenseReduction"`
	IncomeIncrease     float64 `json:"incomeIncrease"`
	AdjustedAvgIncome  float64 `json:"adjustedAvgIncome"`
	AdjustedAvgExpense float64 `json:"adjustedAvgExpense"`
}

// MonthlyPredictionResponse is one projected month
type MonthlyPredictionResponse struct {
	MonthIndex        int     `json:"monthIndex"`
	MonthLabel        string  `json:"monthLabel"`
	ProjectedIncome   float64 `json:"projectedIncome"`
	ProjectedExpense  float64 `json:"projectedExpense"`
	MonthlySavings    float64 `json:"monthlySavings"`
	CumulativeSavings float64 `json:"cumulativeSavings"`
}

// PredictionMonthRefResponse points at the best or worst projected month
type PredictionMonthRefResponse struct {
	MonthIndex int     `json:"monthIndex"`
	MonthLabel string  `json:"monthLabel"`
	Savings    float64 `json:"savings"`
}

// PredictionSummaryResponse summarises the projection
type PredictionSummaryResponse struct {
	TotalProjectedSavings float64                    `json:"totalProjectedSavings"`
	AvgMonthlySavings     float64                    `json:"avgMonthlySavings"`
	BestMonth             PredictionMonthRefResponse `json:"bestMonth"`
	WorstMonth            PredictionMonthRefResponse `json:"worstMonth"`
	MonthsPredicted       int                        `json:"monthsPredicted"`
}

// PredictionResponse represents a savings prediction. Only hasData, status and
// message are present when there is not enough history.
type PredictionResponse struct {
	HasData     bool                        `json:"hasData"`
	Status      string                      `json:"status"`
	Message     string                      `json:"message,omitempty"`
	Historical  *PredictionHistoryResponse  `json:"historical,omitempty"`
	Scenario    *ScenarioResponse           `json:"scenario,omitempty"`
	Predictions []MonthlyPredictionResponse `json:"predictions,omitempty"`
	Summary     *PredictionSummaryResponse  `json:"summary,omitempty"`
}

// UnusualSpendingResponse is one flagged expense
type UnusualSpendingResponse struct {
	TransactionID   string  `json:"transactionId"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	Date            string  `json:"date"`
	CategoryAverage float64 `json:"categoryAverage"`
	Multiple        float64 `json:"multiple"`
}

// ToCategoryBreakdownResponse maps a breakdown to its API shape
func ToCategoryBreakdownResponse(b domain.CategoryBreakdown) CategoryBreakdownResponse {
	data := make([]CategoryBucketResponse, len(b.Buckets))
	for i, bucket := range b.Buckets {
		data[i] = CategoryBucketResponse{
			Category:   bucket.Category,
			Amount:     money(bucket.Total),
			Count:      bucket.Count,
			Percentage: percent(bucket.Percentage),
		}
	}
	return CategoryBreakdownResponse{Data: data, Total: money(b.Total)}
}

// ToPeriodTrendResponse maps period buckets to their API shape
func ToPeriodTrendResponse(buckets []domain.PeriodBucket) []PeriodBucketResponse {
	result := make([]PeriodBucketResponse, len(buckets))
	for i, b := range buckets {
		result[i] = PeriodBucketResponse{
			PeriodKey:   b.Key,
			PeriodLabel: b.Label,
			Income:      money(b.Income),
			Expense:     money(b.Expense),
			Net:         money(b.Net),
			Count:       b.Count,
		}
	}
	return result
}

// ToReportResponse maps a report to its API shape
func ToReportResponse(r *domain.Report) ReportResponse {
	top := make([]TopExpenseResponse, len(r.TopExpenses))
	for i, e := range r.TopExpenses {
		top[i] = TopExpenseResponse{
			ID:          e.ID.String(),
			Description: e.Description,
			Category:    e.Category,
			Amount:      money(e.Amount),
			Date:        util.DayKey(e.Date),
		}
	}

	return ReportResponse{
		HasData: r.HasData,
		Summary: ReportSummaryResponse{
			TotalIncome:  money(r.Summary.TotalIncome),
			TotalExpense: money(r.Summary.TotalExpense),
			NetAmount:    money(r.Summary.NetAmount),
			TransactionCounts: TransactionCountsResponse{
				Income:  r.Summary.Counts.Income,
				Expense: r.Summary.Counts.Expense,
				Total:   r.Summary.Counts.Total,
			},
			AvgIncome:  money(r.Summary.AvgIncome),
			AvgExpense: money(r.Summary.AvgExpense),
		},
		ExpenseBreakdown: ToCategoryBreakdownResponse(r.ExpenseBreakdown),
		IncomeBreakdown:  ToCategoryBreakdownResponse(r.IncomeBreakdown),
		TopExpenses:      top,
		DateRange: DateRangeResponse{
			StartDate: formatOptionalDay(r.DateRange.Start),
			EndDate:   formatOptionalDay(r.DateRange.End),
		},
	}
}

// ToPredictionResponse maps a prediction to its API shape
func ToPredictionResponse(p *domain.Prediction) PredictionResponse {
	resp := PredictionResponse{
		HasData: p.HasData,
		Status:  string(p.Status),
		Message: p.Message,
	}
	if !p.HasData {
		return resp
	}

	if h := p.Historical; h != nil {
		months := make([]HistoricalMonthResponse, len(h.Months))
		for i, m := range h.Months {
			months[i] = HistoricalMonthResponse{
				Month:      m.Key,
				MonthLabel: m.Label,
				Income:     money(m.Income),
				Expense:    money(m.Expense),
				Savings:    money(m.Savings),
			}
		}
		resp.Historical = &PredictionHistoryResponse{
			MonthsAnalyzed:    h.MonthsAnalyzed,
			AvgMonthlyIncome:  money(h.AvgMonthlyIncome),
			AvgMonthlyExpense: money(h.AvgMonthlyExpense),
			AvgMonthlySavings: money(h.AvgMonthlySavings),
			IncomeTrend:       money(h.IncomeTrend),
			ExpenseTrend:      money(h.ExpenseTrend),
			Months:            months,
		}
	}

	if s := p.Scenario; s != nil {
		resp.Scenario = &ScenarioResponse{
			ExpenseReduction:   s.ExpenseReductionPct.InexactFloat64(),
			IncomeIncrease:     s.IncomeIncreasePct.InexactFloat64(),
			AdjustedAvgIncome:  money(s.AdjustedAvgIncome),
			AdjustedAvgExpense: money(s.AdjustedAvgExpense),
		}
	}

	resp.Predictions = make([]MonthlyPredictionResponse, len(p.Predictions))
	for i, m := range p.Predictions {
		resp.Predictions[i] = MonthlyPredictionResponse{
			MonthIndex:        m.MonthIndex,
			MonthLabel:        m.MonthLabel,
			ProjectedIncome:   money(m.ProjectedIncome),
			ProjectedExpense:  money(m.ProjectedExpense),
			MonthlySavings:    money(m.MonthlySavings),
			CumulativeSavings: money(m.CumulativeSavings),
		}
	}

	if s := p.Summary; s != nil {
		resp.Summary = &PredictionSummaryResponse{
			TotalProjectedSavings: money(s.TotalProjectedSavings),
			AvgMonthlySavings:     money(s.AvgMonthlySavings),
			BestMonth:             toMonthRef(s.BestMonth),
			WorstMonth:            toMonthRef(s.WorstMonth),
			MonthsPredicted:       s.MonthsPredicted,
		}
	}
	return resp
}

// ToUnusualSpendingResponse maps flagged expenses to their API shape
func ToUnusualSpendingResponse(items []domain.UnusualSpending) []UnusualSpendingResponse {
	result := make([]UnusualSpendingResponse, len(items))
	for i, u := range items {
		result[i] = UnusualSpendingResponse{
			TransactionID:   u.TransactionID.String(),
			Description:     u.Description,
			Category:        u.Category,
			Amount:          money(u.Amount),
			Date:            util.DayKey(u.Date),
			CategoryAverage: money(u.CategoryAverage),
			Multiple:        percent(u.Multiple),
		}
	}
	return result
}

func toMonthRef(m domain.PredictionMonthRef) PredictionMonthRefResponse {
	return PredictionMonthRefResponse{
		MonthIndex: m.MonthIndex,
		MonthLabel: m.MonthLabel,
		Savings:    money(m.Savings),
	}
}

func formatOptionalDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := util.DayKey(*t)
	return &s
}
