package calculator

import (
	"errors"
	"math"

	"ChartFeed/internal/model"
)

// Summary describes a chart's range and movement.
// Open is the first column's opening price; Last is the final column's value.
type Summary struct {
	Open          float64 `json:"open"`
	Last          float64 `json:"last"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Average       float64 `json:"average"`
	ChangePercent float64 `json:"change_percent"`
	RSI           float64 `json:"rsi"`
}

// Summarize computes the summary of a chart's columns.
func Summarize(data model.ChartData) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, errors.New("no chart columns provided")
	}
	high, low, err := Range(data)
	if err != nil {
		return Summary{}, err
	}
	avg, err := CalculateSMA(extractValues(data), len(data))
	if err != nil {
		return Summary{}, err
	}
	rsi, err := CalculateRSI(sampleCloses(data), RSIPeriod)
	if err != nil {
		return Summary{}, err
	}
	open, last := data[0].Open, data[len(data)-1].Value
	return Summary{
		Open:          open,
		Last:          last,
		High:          high,
		Low:           low,
		Average:       avg,
		ChangePercent: ChangePercent(open, last),
		RSI:           rsi,
	}, nil
}

// Range scans all columns and returns the high and low.
func Range(data model.ChartData) (high, low float64, err error) {
	if len(data) == 0 {
		return 0, 0, errors.New("no chart columns provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range data {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low, nil
}

// ChangePercent returns the relative move from first to last, 0 when first is 0.
func ChangePercent(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}
