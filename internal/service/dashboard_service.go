package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/analytics"
	"github.com/moneymate/moneymate-backend/internal/cache"
	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/util"
)

var hundred = decimal.NewFromInt(100)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	transactionRepo domain.TransactionRepository
	cache           *cache.Cache
	clock           util.Clock
	loc             *time.Location
	storeTimeout    time.Duration
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	transactionRepo domain.TransactionRepository,
	resultCache *cache.Cache,
	clock util.Clock,
	loc *time.Location,
	storeTimeout time.Duration,
) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = util.SystemClock{}
	}
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &DashboardService{
		transactionRepo: transactionRepo,
		cache:           resultCache,
		clock:           clock,
		loc:             loc,
		storeTimeout:    storeTimeout,
	}
}

// GetSummary returns the dashboard summary for the current month
func (s *DashboardService) GetSummary(ctx context.Context, userID uuid.UUID) (*domain.DashboardSummary, error) {
	now := s.clock.Now().In(s.loc)
	key := cache.NewKey("dashboard:summary", userID, util.MonthKey(now))
	var gen uint64
	if s.cache != nil {
		gen = s.cache.Generation(userID)
		if cached, ok := s.cache.Get(key); ok {
			if summary, ok := cached.(*domain.DashboardSummary); ok {
				return summary, nil
			}
		}
	}

	curStart := util.MonthStart(now)
	curEnd := util.MonthEnd(now)
	prevStart := curStart.AddDate(0, -1, 0)
	prevEnd := curStart.Add(-time.Nanosecond)

	current, err := s.totals(ctx, userID, &domain.TransactionFilters{StartDate: &curStart, EndDate: &curEnd})
	if err != nil {
		return nil, err
	}
	previous, err := s.totals(ctx, userID, &domain.TransactionFilters{StartDate: &prevStart, EndDate: &prevEnd})
	if err != nil {
		return nil, err
	}

	// Balances are all-time; the previous one stops at the end of last month
	allTime, err := s.totals(ctx, userID, &domain.TransactionFilters{})
	if err != nil {
		return nil, err
	}
	untilPrev, err := s.totals(ctx, userID, &domain.TransactionFilters{EndDate: &prevEnd})
	if err != nil {
		return nil, err
	}

	recent, err := s.list(ctx, userID, &domain.TransactionFilters{Limit: domain.DefaultRecentTransactions})
	if err != nil {
		return nil, err
	}

	balance := allTime.Income.Sub(allTime.Expense)
	prevBalance := untilPrev.Income.Sub(untilPrev.Expense)

	summary := &domain.DashboardSummary{
		Month:            util.MonthKey(now),
		TotalBalance:     balance,
		Income:           current.Income,
		Expenses:         current.Expense,
		PreviousIncome:   previous.Income,
		PreviousExpenses: previous.Expense,
		PercentageChanges: domain.PercentageChanges{
			Balance:  balanceChange(balance, prevBalance),
			Income:   percentageChange(current.Income, previous.Income),
			Expenses: percentageChange(current.Expense, previous.Expense),
		},
		RecentTransactions: recent,
	}

	if s.cache != nil {
		s.cache.SetIfGeneration(key, gen, summary)
	}
	return summary, nil
}

// GetRecentTransactions returns the user's newest transactions
func (s *DashboardService) GetRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = domain.DefaultRecentTransactions
	}
	if limit > domain.MaxRecentTransactions {
		limit = domain.MaxRecentTransactions
	}
	return s.list(ctx, userID, &domain.TransactionFilters{Limit: int32(limit)})
}

// GetExpenseTrends returns one entry per month for the current month and the
// months-1 before it, including months without expenses
func (s *DashboardService) GetExpenseTrends(ctx context.Context, userID uuid.UUID, months int) ([]domain.MonthlyExpenseTrend, error) {
	if months < 1 || months > domain.MaxTrendMonths {
		return nil, domain.ErrInvalidMonthsWindow
	}

	now := s.clock.Now().In(s.loc)
	first := util.MonthStart(now).AddDate(0, -(months - 1), 0)
	expense := domain.TransactionTypeExpense

	txs, err := s.list(ctx, userID, &domain.TransactionFilters{Type: &expense, StartDate: &first, EndDate: &now})
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]domain.PeriodBucket)
	for _, b := range analytics.AggregateByPeriod(txs, domain.GranularityMonth, s.loc) {
		byMonth[b.Key] = b
	}

	trends := make([]domain.MonthlyExpenseTrend, 0, months)
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i, 0)
		trend := domain.MonthlyExpenseTrend{
			Month:      util.MonthKey(month),
			MonthLabel: util.MonthLabel(month),
			Total:      decimal.Zero,
			Average:    decimal.Zero,
		}
		if b, ok := byMonth[trend.Month]; ok {
			trend.Total = b.Expense
			trend.Count = b.Count
			trend.Average = b.Expense.Div(decimal.NewFromInt(int64(b.Count))).Round(2)
		}
		trends = append(trends, trend)
	}
	return trends, nil
}

// GetExpenseCategories returns the current month's largest expense categories
func (s *DashboardService) GetExpenseCategories(ctx context.Context, userID uuid.UUID) (*domain.CategoryBreakdown, error) {
	now := s.clock.Now().In(s.loc)
	start := util.MonthStart(now)
	end := util.MonthEnd(now)
	expense := domain.TransactionTypeExpense

	txs, err := s.list(ctx, userID, &domain.TransactionFilters{Type: &expense, StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, err
	}

	breakdown := analytics.AggregateByCategory(txs, &expense)
	if len(breakdown.Buckets) > domain.DashboardCategoryLimit {
		breakdown.Buckets = breakdown.Buckets[:domain.DashboardCategoryLimit]
	}
	return &breakdown, nil
}

func (s *DashboardService) list(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	txs, err := s.transactionRepo.List(ctx, userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list transactions for dashboard")
		return nil, err
	}
	return txs, nil
}

func (s *DashboardService) totals(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.TransactionTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	totals, err := s.transactionRepo.Totals(ctx, userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to sum transactions for dashboard")
		return nil, err
	}
	return totals, nil
}

// percentageChange is (cur-prev)/prev*100, or 0 when prev is not positive
func percentageChange(cur, prev decimal.Decimal) decimal.Decimal {
	if !prev.IsPositive() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(1)
}

// balanceChange divides by |prev| so a recovering negative balance reads as growth
func balanceChange(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev.Abs()).Mul(hundred).Round(1)
}
