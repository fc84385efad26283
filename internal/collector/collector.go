package collector

import (
	"context"
	"strconv"
	"time"

	"ChartFeed/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	From, To model.Currency
	Gran     model.Granularity
	Samples  model.Series // returned as-is when set
	Price    float64      // base price for generated samples
	Count    int          // limit; also the generated sample count
	Columns  map[model.PeriodType]int
	Err      error
	Calls    int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Granularity() model.Granularity {
	if m.Gran == "" {
		return model.GranularityDay
	}
	return m.Gran
}

func (m *MockProvider) Limit() int { return m.Count }

func (m *MockProvider) APIParam(name string) string {
	switch name {
	case "fsym":
		return m.From.Code
	case "tsym":
		return m.To.Code
	case "limit":
		return strconv.Itoa(m.Count)
	}
	return ""
}

func (m *MockProvider) ColumnCount(period model.PeriodType, def int) int {
	if n, ok := m.Columns[period]; ok && n > 0 {
		return n
	}
	return def
}

func (m *MockProvider) FetchSeries(_ context.Context) (model.Series, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Samples != nil {
		return m.Samples, nil
	}
	return GenerateSeries(m.Price, m.Count, time.Unix(1700000000, 0).UTC(), 24*time.Hour), nil
}

// GenerateSeries builds count ascending samples starting at start, step apart.
func GenerateSeries(basePrice float64, count int, start time.Time, step time.Duration) model.Series {
	series := make(model.Series, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		series[i] = model.Sample{
			Time:       start.Add(time.Duration(i) * step),
			Open:       p * 0.999,
			High:       p * 1.005,
			Low:        p * 0.995,
			Close:      p,
			VolumeFrom: 10,
			VolumeTo:   10 * p,
		}
	}
	return series
}
