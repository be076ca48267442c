package domain

import (
	"testing"
)

func TestTransactionTypeIsValid(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		expected bool
	}{
		{"income", TransactionTypeIncome, true},
		{"expense", TransactionTypeExpense, true},
		{"empty", TransactionType(""), false},
		{"transfer", TransactionType("transfer"), false},
		{"uppercase", TransactionType("INCOME"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.txType.IsValid(); got != tt.expected {
				t.Errorf("TransactionType(%q).IsValid() = %v, want %v", tt.txType, got, tt.expected)
			}
		})
	}
}

func TestGranularityIsValid(t *testing.T) {
	tests := []struct {
		granularity Granularity
		expected    bool
	}{
		{GranularityDay, true},
		{GranularityWeek, true},
		{GranularityMonth, true},
		{Granularity("quarter"), false},
		{Granularity(""), false},
	}

	for _, tt := range tests {
		if got := tt.granularity.IsValid(); got != tt.expected {
			t.Errorf("Granularity(%q).IsValid() = %v, want %v", tt.granularity, got, tt.expected)
		}
	}
}

func TestPredictionLimitsAreConsistent(t *testing.T) {
	if DefaultPredictionHorizon > MaxPredictionHorizon {
		t.Errorf("default horizon %d exceeds max %d", DefaultPredictionHorizon, MaxPredictionHorizon)
	}
	if MinPredictionHistoryMonths < 1 {
		t.Errorf("MinPredictionHistoryMonths = %d, want at least 1", MinPredictionHistoryMonths)
	}
}
