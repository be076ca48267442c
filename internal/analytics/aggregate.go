// Package analytics holds the pure computations behind the analytics endpoints:
// category and period aggregation, trend estimation, savings forecasting and
// report assembly. Nothing here performs I/O or reads the wall clock.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/util"
)

var hundred = decimal.NewFromInt(100)

// AggregateByCategory groups transactions by category and sums their amounts.
// When kind is non-nil only transactions of that kind are counted. Buckets are
// ordered by total descending; equal totals keep first-seen order.
func AggregateByCategory(txs []*domain.Transaction, kind *domain.TransactionType) domain.CategoryBreakdown {
	index := make(map[string]int)
	buckets := make([]domain.CategoryBucket, 0)
	total := decimal.Zero

	for _, tx := range txs {
		if kind != nil && tx.Type != *kind {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(buckets)
			index[tx.Category] = i
			buckets = append(buckets, domain.CategoryBucket{Category: tx.Category, Total: decimal.Zero})
		}
		buckets[i].Total = buckets[i].Total.Add(tx.Amount)
		buckets[i].Count++
		total = total.Add(tx.Amount)
	}

	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].Total.GreaterThan(buckets[b].Total)
	})

	for i := range buckets {
		buckets[i].Percentage = Percentage(buckets[i].Total, total)
	}

	return domain.CategoryBreakdown{Buckets: buckets, Total: total}
}

// Percentage returns part/total*100 rounded to one decimal place, or zero
// when total is zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(1)
}

// AggregateByPeriod buckets transactions into calendar periods of the given
// granularity, evaluated in loc. Only periods containing at least one
// transaction are emitted, in ascending key order. An unrecognised
// granularity is treated as monthly.
func AggregateByPeriod(txs []*domain.Transaction, g domain.Granularity, loc *time.Location) []domain.PeriodBucket {
	if loc == nil {
		loc = time.UTC
	}

	byKey := make(map[string]*domain.PeriodBucket)
	for _, tx := range txs {
		local := tx.Date.In(loc)
		key := PeriodKey(local, g)

		b, ok := byKey[key]
		if !ok {
			b = &domain.PeriodBucket{
				Key:     key,
				Label:   PeriodLabel(local, g),
				Start:   periodStart(local, g),
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			byKey[key] = b
		}

		switch tx.Type {
		case domain.TransactionTypeIncome:
			b.Income = b.Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			b.Expense = b.Expense.Add(tx.Amount)
		}
		b.Count++
	}

	result := make([]domain.PeriodBucket, 0, len(byKey))
	for _, b := range byKey {
		b.Net = b.Income.Sub(b.Expense)
		result = append(result, *b)
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].Key < result[b].Key
	})

	return result
}

// PeriodKey returns the sortable key of the period containing t:
// YYYY-MM-DD for days, the ISO-8601 YYYY-Www for weeks, YYYY-MM for months.
func PeriodKey(t time.Time, g domain.Granularity) string {
	switch g {
	case domain.GranularityDay:
		return util.DayKey(t)
	case domain.GranularityWeek:
		return util.ISOWeekKey(t)
	default:
		return util.MonthKey(t)
	}
}

// PeriodLabel returns a display label for the period containing t
func PeriodLabel(t time.Time, g domain.Granularity) string {
	switch g {
	case domain.GranularityDay:
		return util.DayLabel(t)
	case domain.GranularityWeek:
		return util.ISOWeekLabel(t)
	default:
		return util.MonthLabel(t)
	}
}

func periodStart(t time.Time, g domain.Granularity) time.Time {
	switch g {
	case domain.GranularityDay:
		return util.DayStart(t)
	case domain.GranularityWeek:
		return util.ISOWeekStart(t)
	default:
		return util.MonthStart(t)
	}
}
