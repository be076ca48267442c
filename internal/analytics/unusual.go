package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

// DetectUnusualSpending flags expenses larger than UnusualSpendingMultiplier
// times the average of their category. Categories with fewer than
// UnusualSpendingMinSamples expenses are skipped. Income is ignored. The
// caller picks the window, normally the last UnusualSpendingLookbackDays.
//
// With exactly three samples no amount can exceed three times the average,
// so in practice a category needs four or more expenses to produce a flag.
func DetectUnusualSpending(txs []*domain.Transaction) []domain.UnusualSpending {
	byCategory := make(map[string][]*domain.Transaction)
	order := make([]string, 0)
	for _, tx := range txs {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		if _, ok := byCategory[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		byCategory[tx.Category] = append(byCategory[tx.Category], tx)
	}

	multiplier := decimal.NewFromInt(domain.UnusualSpendingMultiplier)
	flagged := make([]domain.UnusualSpending, 0)
	for _, category := range order {
		group := byCategory[category]
		if len(group) < domain.UnusualSpendingMinSamples {
			continue
		}

		amounts := make([]decimal.Decimal, len(group))
		for i, tx := range group {
			amounts[i] = tx.Amount
		}
		avg := Mean(amounts)
		threshold := avg.Mul(multiplier)

		for _, tx := range group {
			if !tx.Amount.GreaterThan(threshold) {
				continue
			}
			flagged = append(flagged, domain.UnusualSpending{
				TransactionID:   tx.ID,
				Description:     tx.Description,
				Category:        category,
				Amount:          tx.Amount,
				Date:            tx.Date,
				CategoryAverage: avg.Round(2),
				Multiple:        tx.Amount.Div(avg).Round(1),
			})
		}
	}
	return flagged
}
