package analytics

import "github.com/shopspring/decimal"

// Slope fits y = a + b*x by ordinary least squares over x = 1..N and returns b.
// Fewer than two values carry no trend and yield zero.
func Slope(values []decimal.Decimal) decimal.Decimal {
	n := len(values)
	if n < 2 {
		return decimal.Zero
	}

	sumX := decimal.Zero
	sumY := decimal.Zero
	sumXY := decimal.Zero
	sumX2 := decimal.Zero
	for i, y := range values {
		x := decimal.NewFromInt(int64(i + 1))
		sumX = sumX.Add(x)
		sumY = sumY.Add(y)
		sumXY = sumXY.Add(x.Mul(y))
		sumX2 = sumX2.Add(x.Mul(x))
	}

	count := decimal.NewFromInt(int64(n))
	denominator := count.Mul(sumX2).Sub(sumX.Mul(sumX))
	if denominator.IsZero() {
		return decimal.Zero
	}

	return count.Mul(sumXY).Sub(sumX.Mul(sumY)).Div(denominator)
}

// Mean returns the arithmetic mean of values, or zero for an empty slice
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}
