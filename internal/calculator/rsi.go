package calculator

import (
	"errors"

	"ChartFeed/internal/model"
)

// RSIPeriod is the lookback used for the chart summary RSI.
const RSIPeriod = 14

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 prices. Returns 50.0 if data is insufficient.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return 50.0, nil // default when data insufficient
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for the remaining prices
	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}

// sampleCloses returns the closes of the raw samples behind the columns,
// or the column values when the samples were not kept (e.g. loaded snapshots).
func sampleCloses(data model.ChartData) []float64 {
	var closes []float64
	for _, c := range data {
		if len(c.Samples) == 0 {
			return extractValues(data)
		}
		for _, s := range c.Samples {
			closes = append(closes, s.Close)
		}
	}
	return closes
}
