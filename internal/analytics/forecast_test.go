package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

func months(pairs ...[2]string) []domain.PeriodBucket {
	buckets := make([]domain.PeriodBucket, len(pairs))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range pairs {
		m := start.AddDate(0, i, 0)
		inc, exp := dec(p[0]), dec(p[1])
		buckets[i] = domain.PeriodBucket{
			Key:     m.Format("2006-01"),
			Label:   m.Format("Jan 2006"),
			Start:   m,
			Income:  inc,
			Expense: exp,
			Net:     inc.Sub(exp),
			Count:   1,
		}
	}
	return buckets
}

func scenario(reduction, increase string, horizon int) domain.PredictionScenario {
	return domain.PredictionScenario{
		ExpenseReductionPct: dec(reduction),
		IncomeIncreasePct:   dec(increase),
		HorizonMonths:       horizon,
	}
}

var april2025 = time.Date(2025, 4, 15, 9, 30, 0, 0, time.UTC)

func TestForecast_NoHistory(t *testing.T) {
	result, err := Forecast(nil, scenario("0", "0", 12), april2025)

	require.NoError(t, err)
	assert.False(t, result.HasData)
	assert.Equal(t, domain.PredictionStatusNoData, result.Status)
	assert.Equal(t, NoDataMessage, result.Message)
	assert.Nil(t, result.Historical)
	assert.Nil(t, result.Predictions)
	assert.Nil(t, result.Summary)
}

func TestForecast_InsufficientHistory(t *testing.T) {
	for _, n := range []int{1, 2} {
		history := months([2]string{"1000", "800"}, [2]string{"1000", "800"})[:n]

		result, err := Forecast(history, scenario("0", "0", 12), april2025)

		require.NoError(t, err)
		assert.False(t, result.HasData, "%d months", n)
		assert.Equal(t, domain.PredictionStatusInsufficientData, result.Status)
		assert.Equal(t, InsufficientDataMessage, result.Message)
	}
}

func TestForecast_ThreeMonthsIsEnough(t *testing.T) {
	history := months([2]string{"1000", "800"}, [2]string{"1100", "800"}, [2]string{"1200", "800"})

	result, err := Forecast(history, scenario("0", "0", 1), april2025)

	require.NoError(t, err)
	require.True(t, result.HasData)
	assert.Equal(t, domain.PredictionStatusOK, result.Status)
	assert.Empty(t, result.Message)

	h := result.Historical
	require.NotNil(t, h)
	assert.Equal(t, 3, h.MonthsAnalyzed)
	assertDecimal(t, "1100", h.AvgMonthlyIncome)
	assertDecimal(t, "800", h.AvgMonthlyExpense)
	assertDecimal(t, "300", h.AvgMonthlySavings)
	assertDecimal(t, "100", h.IncomeTrend)
	assertDecimal(t, "0", h.ExpenseTrend)
	require.Len(t, h.Months, 3)
	assert.Equal(t, "Mar 2025", h.Months[2].Label)
	assertDecimal(t, "400", h.Months[2].Savings)

	require.Len(t, result.Predictions, 1)
	p := result.Predictions[0]
	assert.Equal(t, 1, p.MonthIndex)
	assert.Equal(t, "Apr 2025", p.MonthLabel)
	assertDecimal(t, "1200", p.ProjectedIncome)
	assertDecimal(t, "800", p.ProjectedExpense)
	assertDecimal(t, "400", p.MonthlySavings)
	assertDecimal(t, "400", p.CumulativeSavings)
}

func TestForecast_CumulativeIsRunningSum(t *testing.T) {
	history := months([2]string{"1000", "800"}, [2]string{"1100", "800"}, [2]string{"1200", "800"})

	result, err := Forecast(history, scenario("0", "0", 3), april2025)

	require.NoError(t, err)
	require.Len(t, result.Predictions, 3)

	wantSavings := []string{"400", "500", "600"}
	wantCumulative := []string{"400", "900", "1500"}
	running := decimal.Zero
	for i, p := range result.Predictions {
		assertDecimal(t, wantSavings[i], p.MonthlySavings, i)
		assertDecimal(t, wantCumulative[i], p.CumulativeSavings, i)
		running = running.Add(p.MonthlySavings)
		assert.True(t, running.Equal(p.CumulativeSavings))
	}

	s := result.Summary
	require.NotNil(t, s)
	assertDecimal(t, "1500", s.TotalProjectedSavings)
	assertDecimal(t, "500", s.AvgMonthlySavings)
	assert.Equal(t, 3, s.BestMonth.MonthIndex)
	assert.Equal(t, "Jun 2025", s.BestMonth.MonthLabel)
	assertDecimal(t, "600", s.BestMonth.Savings)
	assert.Equal(t, 1, s.WorstMonth.MonthIndex)
	assert.Equal(t, 3, s.MonthsPredicted)
}

func TestForecast_ZeroScenarioKeepsHistoricalAverages(t *testing.T) {
	history := months([2]string{"1234.56", "987.65"}, [2]string{"1500", "1000"}, [2]string{"900.10", "1100"})

	result, err := Forecast(history, scenario("0", "0", 6), april2025)

	require.NoError(t, err)
	assert.True(t, result.Scenario.AdjustedAvgIncome.Equal(result.Historical.AvgMonthlyIncome))
	assert.True(t, result.Scenario.AdjustedAvgExpense.Equal(result.Historical.AvgMonthlyExpense))
}

func TestForecast_ScenarioAdjustments(t *testing.T) {
	history := months([2]string{"1000", "800"}, [2]string{"1000", "800"}, [2]string{"1000", "800"})

	result, err := Forecast(history, scenario("10", "20", 2), april2025)

	require.NoError(t, err)
	assertDecimal(t, "1200", result.Scenario.AdjustedAvgIncome)
	assertDecimal(t, "720", result.Scenario.AdjustedAvgExpense)
	assertDecimal(t, "10", result.Scenario.ExpenseReductionPct)
	assertDecimal(t, "20", result.Scenario.IncomeIncreasePct)
	assertDecimal(t, "480", result.Predictions[0].MonthlySavings)
	assertDecimal(t, "960", result.Predictions[1].CumulativeSavings)
}

func TestForecast_ExpenseFlooredAtZero(t *testing.T) {
	history := months([2]string{"1000", "900"}, [2]string{"1000", "600"}, [2]string{"1000", "300"})

	result, err := Forecast(history, scenario("0", "0", 3), april2025)

	require.NoError(t, err)
	require.Len(t, result.Predictions, 3)
	assertDecimal(t, "300", result.Predictions[0].ProjectedExpense)
	assertDecimal(t, "0", result.Predictions[1].ProjectedExpense)
	assertDecimal(t, "0", result.Predictions[2].ProjectedExpense)
	assertDecimal(t, "1000", result.Predictions[2].MonthlySavings)
}

func TestForecast_TiesPickFirstMonth(t *testing.T) {
	history := months([2]string{"500", "200"}, [2]string{"500", "200"}, [2]string{"500", "200"})

	result, err := Forecast(history, scenario("0", "0", 4), april2025)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.BestMonth.MonthIndex)
	assert.Equal(t, 1, result.Summary.WorstMonth.MonthIndex)
}

func TestForecast_LabelsCrossYearBoundary(t *testing.T) {
	history := months([2]string{"1", "1"}, [2]string{"1", "1"}, [2]string{"1", "1"})

	result, err := Forecast(history, scenario("0", "0", 3), time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, "Nov 2025", result.Predictions[0].MonthLabel)
	assert.Equal(t, "Dec 2025", result.Predictions[1].MonthLabel)
	assert.Equal(t, "Jan 2026", result.Predictions[2].MonthLabel)
}

func TestValidateScenario(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.PredictionScenario
		wantErr error
	}{
		{"defaults", scenario("0", "0", domain.DefaultPredictionHorizon), nil},
		{"upper bounds", scenario("100", "100", domain.MaxPredictionHorizon), nil},
		{"negative reduction", scenario("-1", "0", 12), domain.ErrInvalidExpenseReduction},
		{"reduction above 100", scenario("100.5", "0", 12), domain.ErrInvalidExpenseReduction},
		{"negative increase", scenario("0", "-0.1", 12), domain.ErrInvalidIncomeIncrease},
		{"increase above 100", scenario("0", "101", 12), domain.ErrInvalidIncomeIncrease},
		{"zero horizon", scenario("0", "0", 0), domain.ErrInvalidHorizon},
		{"negative horizon", scenario("0", "0", -3), domain.ErrInvalidHorizon},
		{"horizon too long", scenario("0", "0", domain.MaxPredictionHorizon+1), domain.ErrInvalidHorizon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScenario(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestForecast_RejectsInvalidScenarioBeforeComputing(t *testing.T) {
	result, err := Forecast(nil, scenario("0", "0", 0), april2025)

	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
	assert.Nil(t, result)
}
