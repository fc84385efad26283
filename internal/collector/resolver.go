package collector

import "ChartFeed/internal/model"

type route struct {
	granularity model.Granularity
	lookback    int
}

var routes = map[model.PeriodType]route{
	model.PeriodTypeHour:   {model.GranularityMinute, model.PeriodTimeHour},
	model.PeriodTypeDay:    {model.GranularityHour, model.PeriodTimeDay},
	model.PeriodTypeWeek:   {model.GranularityDay, model.PeriodTimeWeek},
	model.PeriodTypeMonth:  {model.GranularityDay, model.PeriodTimeMonth},
	model.PeriodType3Month: {model.GranularityDay, model.PeriodTime3Month},
	model.PeriodType6Month: {model.GranularityDay, model.PeriodTime6Month},
	model.PeriodTypeYear:   {model.GranularityDay, model.PeriodTimeYear},
}

// Resolver picks the history provider serving a period type.
type Resolver struct {
	Client *Client
}

// NewResolver creates a Resolver backed by client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{Client: client}
}

// Resolve returns a provider configured with the granularity and lookback for period.
func (r *Resolver) Resolve(from, to model.Currency, period model.PeriodType) (Provider, error) {
	rt, ok := routes[period]
	if !ok {
		return nil, &ProviderNotFoundError{Period: period}
	}
	return NewHistoryProvider(r.Client, rt.granularity, from, to, rt.lookback), nil
}
