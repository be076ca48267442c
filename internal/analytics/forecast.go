package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/util"
)

// Messages returned when a prediction cannot be produced
const (
	NoDataMessage           = "No transactions found. Add transactions to get a savings prediction."
	InsufficientDataMessage = "Need at least 3 months of data for accurate predictions."
)

// ValidateScenario rejects out-of-range scenario parameters. Values are never clamped.
func ValidateScenario(s domain.PredictionScenario) error {
	maxPct := decimal.NewFromInt(domain.MaxPercentageAdjustment)
	if s.ExpenseReductionPct.IsNegative() || s.ExpenseReductionPct.GreaterThan(maxPct) {
		return domain.ErrInvalidExpenseReduction
	}
	if s.IncomeIncreasePct.IsNegative() || s.IncomeIncreasePct.GreaterThan(maxPct) {
		return domain.ErrInvalidIncomeIncrease
	}
	if s.HorizonMonths <= 0 || s.HorizonMonths > domain.MaxPredictionHorizon {
		return domain.ErrInvalidHorizon
	}
	return nil
}

// Forecast projects monthly income, expense and savings for the scenario's
// horizon. history must be monthly buckets in ascending order; firstMonth is
// any instant in the first projected month and only drives labels.
//
// Fewer than MinPredictionHistoryMonths buckets produce a result with HasData
// false rather than an error. The only errors are scenario validation errors.
func Forecast(history []domain.PeriodBucket, scenario domain.PredictionScenario, firstMonth time.Time) (*domain.Prediction, error) {
	if err := ValidateScenario(scenario); err != nil {
		return nil, err
	}

	switch {
	case len(history) == 0:
		return &domain.Prediction{
			Status:  domain.PredictionStatusNoData,
			Message: NoDataMessage,
		}, nil
	case len(history) < domain.MinPredictionHistoryMonths:
		return &domain.Prediction{
			Status:  domain.PredictionStatusInsufficientData,
			Message: InsufficientDataMessage,
		}, nil
	}

	incomes := make([]decimal.Decimal, len(history))
	expenses := make([]decimal.Decimal, len(history))
	savings := make([]decimal.Decimal, len(history))
	months := make([]domain.HistoricalMonth, len(history))
	for i, b := range history {
		incomes[i] = b.Income
		expenses[i] = b.Expense
		savings[i] = b.Income.Sub(b.Expense)
		months[i] = domain.HistoricalMonth{
			Key:     b.Key,
			Label:   b.Label,
			Income:  b.Income.Round(2),
			Expense: b.Expense.Round(2),
			Savings: savings[i].Round(2),
		}
	}

	avgIncome := Mean(incomes)
	avgExpense := Mean(expenses)
	incomeTrend := Slope(incomes)
	expenseTrend := Slope(expenses)

	adjustedIncome := avgIncome.Mul(decimal.NewFromInt(1).Add(scenario.IncomeIncreasePct.Div(hundred)))
	adjustedExpense := avgExpense.Mul(decimal.NewFromInt(1).Sub(scenario.ExpenseReductionPct.Div(hundred)))

	start := util.MonthStart(firstMonth)
	predictions := make([]domain.MonthlyPrediction, 0, scenario.HorizonMonths)
	cumulative := decimal.Zero
	var best, worst domain.PredictionMonthRef
	var bestRaw, worstRaw decimal.Decimal

	for i := 1; i <= scenario.HorizonMonths; i++ {
		step := decimal.NewFromInt(int64(i))
		income := adjustedIncome.Add(incomeTrend.Mul(step))
		expense := decimal.Max(decimal.Zero, adjustedExpense.Add(expenseTrend.Mul(step)))
		monthly := income.Sub(expense)
		cumulative = cumulative.Add(monthly)

		label := util.MonthLabel(start.AddDate(0, i-1, 0))
		predictions = append(predictions, domain.MonthlyPrediction{
			MonthIndex:        i,
			MonthLabel:        label,
			ProjectedIncome:   income.Round(2),
			ProjectedExpense:  expense.Round(2),
			MonthlySavings:    monthly.Round(2),
			CumulativeSavings: cumulative.Round(2),
		})

		ref := domain.PredictionMonthRef{MonthIndex: i, MonthLabel: label, Savings: monthly.Round(2)}
		if i == 1 || monthly.GreaterThan(bestRaw) {
			best, bestRaw = ref, monthly
		}
		if i == 1 || monthly.LessThan(worstRaw) {
			worst, worstRaw = ref, monthly
		}
	}

	return &domain.Prediction{
		HasData: true,
		Status:  domain.PredictionStatusOK,
		Historical: &domain.PredictionHistory{
			MonthsAnalyzed:    len(history),
			AvgMonthlyIncome:  avgIncome.Round(2),
			AvgMonthlyExpense: avgExpense.Round(2),
			AvgMonthlySavings: Mean(savings).Round(2),
			IncomeTrend:       incomeTrend.Round(2),
			ExpenseTrend:      expenseTrend.Round(2),
			Months:            months,
		},
		Scenario: &domain.ScenarioResult{
			ExpenseReductionPct: scenario.ExpenseReductionPct,
			IncomeIncreasePct:   scenario.IncomeIncreasePct,
			AdjustedAvgIncome:   adjustedIncome.Round(2),
			AdjustedAvgExpense:  adjustedExpense.Round(2),
		},
		Predictions: predictions,
		Summary: &domain.PredictionSummary{
			TotalProjectedSavings: cumulative.Round(2),
			AvgMonthlySavings:     cumulative.Div(decimal.NewFromInt(int64(scenario.HorizonMonths))).Round(2),
			BestMonth:             best,
			WorstMonth:            worst,
			MonthsPredicted:       scenario.HorizonMonths,
		},
	}, nil
}
