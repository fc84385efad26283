package calculator

import (
	"errors"

	"ChartFeed/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

func extractValues(data model.ChartData) []float64 {
	values := make([]float64, len(data))
	for i, c := range data {
		values[i] = c.Value
	}
	return values
}
