package chart

import (
	"context"
	"fmt"

	"ChartFeed/internal/calculator"
	"ChartFeed/internal/collector"
	"ChartFeed/internal/model"
)

// DefaultColumnCount is the chart width used when no per-period value is configured.
const DefaultColumnCount = 12

// Service builds chart data from history providers.
type Service struct {
	Resolver *collector.Resolver
	wrap     func(collector.Provider) collector.Provider
}

// Option customises a Service.
type Option func(*Service)

// Wrap installs a decorator applied to every resolved provider, e.g. a cache.
func Wrap(fn func(collector.Provider) collector.Provider) Option {
	return func(s *Service) { s.wrap = fn }
}

// NewService creates a Service resolving providers through r.
func NewService(r *collector.Resolver, opts ...Option) *Service {
	s := &Service{Resolver: r}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChartData fetches the provider's series and reduces it to the period's column count.
func (s *Service) ChartData(ctx context.Context, p collector.Provider, f Formatter, period model.PeriodType) (model.ChartData, error) {
	columns := p.ColumnCount(period, DefaultColumnCount)
	if columns < 1 {
		columns = DefaultColumnCount
	}

	series, err := p.FetchSeries(ctx)
	if err != nil {
		return nil, err
	}

	aggregate := p.Limit() / columns
	if aggregate < 1 {
		aggregate = 1
	}
	return f.Format(series, aggregate), nil
}

// CryptocompareChartData resolves the provider for period and formats its series.
func (s *Service) CryptocompareChartData(ctx context.Context, from, to model.Currency, period model.PeriodType) (model.ChartData, error) {
	p, err := s.Provider(from, to, period)
	if err != nil {
		return nil, err
	}
	return s.ChartData(ctx, p, CryptocompareFormatter{}, period)
}

// Provider resolves (and decorates) the history provider for a pair and period.
func (s *Service) Provider(from, to model.Currency, period model.PeriodType) (collector.Provider, error) {
	if s.Resolver == nil {
		return nil, fmt.Errorf("chart service: no resolver")
	}
	p, err := s.Resolver.Resolve(from, to, period)
	if err != nil {
		return nil, err
	}
	if s.wrap != nil {
		p = s.wrap(p)
	}
	return p, nil
}

// Result is a computed chart together with the provider that fed it.
type Result struct {
	Pair     model.Pair
	Period   model.PeriodType
	Provider string
	Columns  model.ChartData
	Summary  *calculator.Summary
}

// Compute builds the chart for a pair and period and summarises it.
// Summary is nil when the upstream returned no samples.
func (s *Service) Compute(ctx context.Context, from, to model.Currency, period model.PeriodType) (*Result, error) {
	p, err := s.Provider(from, to, period)
	if err != nil {
		return nil, err
	}
	data, err := s.ChartData(ctx, p, CryptocompareFormatter{}, period)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Pair:     model.Pair{From: from, To: to},
		Period:   period,
		Provider: p.Name(),
		Columns:  data,
	}
	if len(data) > 0 {
		if sum, err := calculator.Summarize(data); err == nil {
			res.Summary = &sum
		}
	}
	return res, nil
}
