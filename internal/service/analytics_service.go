package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/moneymate/moneymate-backend/internal/analytics"
	"github.com/moneymate/moneymate-backend/internal/cache"
	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/util"
)

// Defaults used when AnalyticsConfig fields are zero
const (
	DefaultStoreTimeout            = 5 * time.Second
	DefaultPredictionHistoryMonths = 12
	DefaultIncomeVsExpenseMonths   = 6
)

// AnalyticsConfig holds the tunables of AnalyticsService
type AnalyticsConfig struct {
	Location                *time.Location // calendar used for period keys
	StoreTimeout            time.Duration  // bound on each transaction store read
	PredictionHistoryMonths int            // calendar months of history fed to the forecaster
}

// AnalyticsService reads transactions and runs them through the analytics engine
type AnalyticsService struct {
	transactionRepo domain.TransactionRepository
	cache           *cache.Cache
	clock           util.Clock
	loc             *time.Location
	storeTimeout    time.Duration
	historyMonths   int
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	transactionRepo domain.TransactionRepository,
	resultCache *cache.Cache,
	clock util.Clock,
	config AnalyticsConfig,
) *AnalyticsService {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.StoreTimeout <= 0 {
		config.StoreTimeout = DefaultStoreTimeout
	}
	if config.PredictionHistoryMonths < domain.MinPredictionHistoryMonths {
		config.PredictionHistoryMonths = DefaultPredictionHistoryMonths
	}
	if clock == nil {
		clock = util.SystemClock{}
	}

	return &AnalyticsService{
		transactionRepo: transactionRepo,
		cache:           resultCache,
		clock:           clock,
		loc:             config.Location,
		storeTimeout:    config.StoreTimeout,
		historyMonths:   config.PredictionHistoryMonths,
	}
}

// Location returns the calendar used for period keys and date parsing
func (s *AnalyticsService) Location() *time.Location {
	return s.loc
}

// GetCategoryBreakdown groups the user's transactions of one kind by category
func (s *AnalyticsService) GetCategoryBreakdown(ctx context.Context, userID uuid.UUID, kind domain.TransactionType, dr domain.DateRange) (*domain.CategoryBreakdown, error) {
	if !kind.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if err := validateDateRange(dr); err != nil {
		return nil, err
	}

	txs, err := s.fetch(ctx, userID, &domain.TransactionFilters{
		Type:      &kind,
		StartDate: dr.Start,
		EndDate:   dr.End,
	})
	if err != nil {
		return nil, err
	}

	breakdown := analytics.AggregateByCategory(txs, &kind)
	return &breakdown, nil
}

// GetPeriodTrend buckets the user's transactions by day, ISO week or month
func (s *AnalyticsService) GetPeriodTrend(ctx context.Context, userID uuid.UUID, granularity domain.Granularity, dr domain.DateRange) ([]domain.PeriodBucket, error) {
	if !granularity.IsValid() {
		return nil, domain.ErrInvalidGranularity
	}
	if err := validateDateRange(dr); err != nil {
		return nil, err
	}

	txs, err := s.fetch(ctx, userID, &domain.TransactionFilters{StartDate: dr.Start, EndDate: dr.End})
	if err != nil {
		return nil, err
	}

	return analytics.AggregateByPeriod(txs, granularity, s.loc), nil
}

// GetIncomeVsExpense returns monthly buckets for the current month and the
// months-1 months before it
func (s *AnalyticsService) GetIncomeVsExpense(ctx context.Context, userID uuid.UUID, months int) ([]domain.PeriodBucket, error) {
	if months < 1 || months > domain.MaxTrendMonths {
		return nil, domain.ErrInvalidMonthsWindow
	}

	start, end := s.monthWindow(months)
	return s.GetPeriodTrend(ctx, userID, domain.GranularityMonth, domain.DateRange{Start: &start, End: &end})
}

// GetReport assembles the consolidated report for the date range. Results are
// cached per user and range.
func (s *AnalyticsService) GetReport(ctx context.Context, userID uuid.UUID, dr domain.DateRange) (*domain.Report, error) {
	if err := validateDateRange(dr); err != nil {
		return nil, err
	}

	key := cache.NewKey("analytics:report", userID, formatBound(dr.Start), formatBound(dr.End))
	gen := s.generation(userID)
	if cached, ok := s.cached(key); ok {
		if report, ok := cached.(*domain.Report); ok {
			return report, nil
		}
	}

	txs, err := s.fetch(ctx, userID, &domain.TransactionFilters{StartDate: dr.Start, EndDate: dr.End})
	if err != nil {
		return nil, err
	}

	report := analytics.AssembleReport(txs, dr)
	s.store(key, gen, report)
	return report, nil
}

// PredictSavings forecasts savings from the user's recent monthly history.
// Scenario errors are returned before any data is read.
func (s *AnalyticsService) PredictSavings(ctx context.Context, userID uuid.UUID, scenario domain.PredictionScenario) (*domain.Prediction, error) {
	if err := analytics.ValidateScenario(scenario); err != nil {
		return nil, err
	}

	now := s.clock.Now().In(s.loc)
	key := cache.NewKey("analytics:prediction", userID,
		util.MonthKey(now),
		scenario.ExpenseReductionPct.String(),
		scenario.IncomeIncreasePct.String(),
		strconv.Itoa(scenario.HorizonMonths),
	)
	gen := s.generation(userID)
	if cached, ok := s.cached(key); ok {
		if prediction, ok := cached.(*domain.Prediction); ok {
			return prediction, nil
		}
	}

	start, end := s.monthWindow(s.historyMonths)
	txs, err := s.fetch(ctx, userID, &domain.TransactionFilters{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, err
	}

	history := analytics.AggregateByPeriod(txs, domain.GranularityMonth, s.loc)
	firstMonth := util.MonthStart(now).AddDate(0, 1, 0)

	prediction, err := analytics.Forecast(history, scenario, firstMonth)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("user_id", userID.String()).
		Int("history_months", len(history)).
		Str("status", string(prediction.Status)).
		Msg("Savings prediction computed")

	s.store(key, gen, prediction)
	return prediction, nil
}

// GetUnusualSpending flags recent expenses far above their category average
func (s *AnalyticsService) GetUnusualSpending(ctx context.Context, userID uuid.UUID) ([]domain.UnusualSpending, error) {
	now := s.clock.Now().In(s.loc)
	start := now.AddDate(0, 0, -domain.UnusualSpendingLookbackDays)
	expense := domain.TransactionTypeExpense

	txs, err := s.fetch(ctx, userID, &domain.TransactionFilters{
		Type:      &expense,
		StartDate: &start,
		EndDate:   &now,
	})
	if err != nil {
		return nil, err
	}

	return analytics.DetectUnusualSpending(txs), nil
}

// fetch reads transactions with the store timeout applied. Store errors are
// returned unchanged.
func (s *AnalyticsService) fetch(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	txs, err := s.transactionRepo.List(ctx, userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to read transactions for analytics")
		return nil, err
	}
	return txs, nil
}

// monthWindow spans the first instant of the month n-1 months ago through now
func (s *AnalyticsService) monthWindow(n int) (time.Time, time.Time) {
	now := s.clock.Now().In(s.loc)
	return util.MonthStart(now).AddDate(0, -(n - 1), 0), now
}

func (s *AnalyticsService) cached(key cache.Key) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *AnalyticsService) generation(userID uuid.UUID) uint64 {
	if s.cache == nil {
		return 0
	}
	return s.cache.Generation(userID)
}

// store drops value if a write invalidated the user after gen was read
func (s *AnalyticsService) store(key cache.Key, gen uint64, value any) {
	if s.cache == nil {
		return
	}
	if !s.cache.SetIfGeneration(key, gen, value) {
		log.Debug().Str("key", key.String()).Msg("Discarded result computed before invalidation")
	}
}

func validateDateRange(dr domain.DateRange) error {
	if dr.Start != nil && dr.End != nil && dr.Start.After(*dr.End) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

// formatBound renders an optional range bound for cache keys
func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
