package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

// AssembleReport builds the consolidated report over txs. dr is echoed back
// unchanged; filtering by date is the caller's job.
func AssembleReport(txs []*domain.Transaction, dr domain.DateRange) *domain.Report {
	income := domain.TransactionTypeIncome
	expense := domain.TransactionTypeExpense

	var summary domain.ReportSummary
	summary.TotalIncome = decimal.Zero
	summary.TotalExpense = decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			summary.Counts.Income++
		case domain.TransactionTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
			summary.Counts.Expense++
		}
	}
	summary.Counts.Total = summary.Counts.Income + summary.Counts.Expense
	summary.NetAmount = summary.TotalIncome.Sub(summary.TotalExpense)
	summary.AvgIncome = average(summary.TotalIncome, summary.Counts.Income)
	summary.AvgExpense = average(summary.TotalExpense, summary.Counts.Expense)

	return &domain.Report{
		HasData:          len(txs) > 0,
		Summary:          summary,
		ExpenseBreakdown: AggregateByCategory(txs, &expense),
		IncomeBreakdown:  AggregateByCategory(txs, &income),
		TopExpenses:      TopExpenses(txs, domain.TopExpensesLimit),
		DateRange:        dr,
	}
}

// TopExpenses returns up to limit expenses with the largest amounts. Equal
// amounts keep their input order.
func TopExpenses(txs []*domain.Transaction, limit int) []domain.TopExpense {
	expenses := make([]*domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == domain.TransactionTypeExpense {
			expenses = append(expenses, tx)
		}
	}

	sort.SliceStable(expenses, func(a, b int) bool {
		return expenses[a].Amount.GreaterThan(expenses[b].Amount)
	})

	if limit >= 0 && len(expenses) > limit {
		expenses = expenses[:limit]
	}

	result := make([]domain.TopExpense, len(expenses))
	for i, tx := range expenses {
		result[i] = domain.TopExpense{
			ID:          tx.ID,
			Description: tx.Description,
			Category:    tx.Category,
			Amount:      tx.Amount,
			Date:        tx.Date,
		}
	}
	return result
}

// average is total/count rounded to cents, zero when count is zero
func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}
