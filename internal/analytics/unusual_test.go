package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

func TestDetectUnusualSpending(t *testing.T) {
	spike := expense("Food", "100", day(2025, 3, 20))
	txs := []*domain.Transaction{
		expense("Food", "10", day(2025, 3, 1)),
		expense("Food", "10", day(2025, 3, 5)),
		expense("Food", "10", day(2025, 3, 10)),
		expense("Food", "10", day(2025, 3, 15)),
		spike,
		income("Salary", "5000", day(2025, 3, 1)),
		expense("Fuel", "50", day(2025, 3, 2)),
		expense("Fuel", "55", day(2025, 3, 9)),
		expense("Fuel", "60", day(2025, 3, 16)),
		expense("Fuel", "52", day(2025, 3, 23)),
	}

	flagged := DetectUnusualSpending(txs)

	require.Len(t, flagged, 1)
	assert.Equal(t, spike.ID, flagged[0].TransactionID)
	assert.Equal(t, "Food", flagged[0].Category)
	assertDecimal(t, "28", flagged[0].CategoryAverage)
	assertDecimal(t, "3.6", flagged[0].Multiple)
}

func TestDetectUnusualSpending_SkipsSmallCategories(t *testing.T) {
	txs := []*domain.Transaction{
		expense("Gifts", "1", day(2025, 3, 1)),
		expense("Gifts", "1000", day(2025, 3, 2)),
	}

	assert.Empty(t, DetectUnusualSpending(txs))
}

func TestDetectUnusualSpending_ThresholdIsStrict(t *testing.T) {
	// average is 10, so 30 sits exactly on the threshold
	txs := []*domain.Transaction{
		expense("Food", "30", day(2025, 3, 1)),
		expense("Food", "0.5", day(2025, 3, 2)),
		expense("Food", "4.5", day(2025, 3, 3)),
		expense("Food", "5", day(2025, 3, 4)),
	}

	assert.Empty(t, DetectUnusualSpending(txs))
}

func TestDetectUnusualSpending_ThreeSamplesNeverFire(t *testing.T) {
	// the outlier is part of its own average, so with three samples it can
	// never exceed three times that average
	txs := []*domain.Transaction{
		expense("Travel", "10000", day(2025, 3, 1)),
		expense("Travel", "0.01", day(2025, 3, 2)),
		expense("Travel", "0.01", day(2025, 3, 3)),
	}

	assert.Empty(t, DetectUnusualSpending(txs))
}
