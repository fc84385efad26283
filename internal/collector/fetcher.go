package collector

import (
	"context"

	"ChartFeed/internal/model"
)

// Provider fetches the raw price series for one currency pair over a fixed lookback window.
type Provider interface {
	Name() string
	Granularity() model.Granularity
	FetchSeries(ctx context.Context) (model.Series, error)
	// APIParam returns a request parameter (fsym, tsym, limit) as sent upstream.
	APIParam(name string) string
	// Limit is the numeric "limit" parameter, i.e. the number of samples requested.
	Limit() int
	// ColumnCount returns the configured chart width for period, or def when unset.
	ColumnCount(period model.PeriodType, def int) int
}
