package model

import "fmt"

// PeriodType is the named time range requested for a chart.
type PeriodType string

const (
	PeriodTypeHour   PeriodType = "hour"
	PeriodTypeDay    PeriodType = "day"
	PeriodTypeWeek   PeriodType = "week"
	PeriodTypeMonth  PeriodType = "month"
	PeriodType3Month PeriodType = "3-month"
	PeriodType6Month PeriodType = "6-month"
	PeriodTypeYear   PeriodType = "year"
)

// Lookback windows, counted in samples of the granularity serving each period.
const (
	PeriodTimeHour   = 60  // minutes
	PeriodTimeDay    = 24  // hours
	PeriodTimeWeek   = 7   // days
	PeriodTimeMonth  = 30  // days
	PeriodTime3Month = 90  // days
	PeriodTime6Month = 180 // days
	PeriodTimeYear   = 365 // days
)

// Granularity is the sampling resolution of a raw series.
type Granularity string

const (
	GranularityMinute Granularity = "minute"
	GranularityHour   Granularity = "hour"
	GranularityDay    Granularity = "day"
)

// AllPeriodTypes returns every supported period, shortest first.
func AllPeriodTypes() []PeriodType {
	return []PeriodType{
		PeriodTypeHour,
		PeriodTypeDay,
		PeriodTypeWeek,
		PeriodTypeMonth,
		PeriodType3Month,
		PeriodType6Month,
		PeriodTypeYear,
	}
}

// ParsePeriodType validates s against the supported periods.
func ParsePeriodType(s string) (PeriodType, error) {
	for _, p := range AllPeriodTypes() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period type %q", s)
}
