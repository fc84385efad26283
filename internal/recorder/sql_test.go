package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartFeed/internal/calculator"
	"ChartFeed/internal/chart"
	"ChartFeed/internal/model"
)

func newSQLite(t *testing.T) *SQLRecorder {
	t.Helper()
	r, err := NewSQLRecorder("sqlite", filepath.Join(t.TempDir(), "chart.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLRecorder_RecordAndLatest(t *testing.T) {
	r := newSQLite(t)
	ctx := context.Background()

	base := time.Unix(1700000000, 0)
	older := &ChartSnapshot{
		Pair: "BTC/USD", Period: model.PeriodTypeDay, Provider: "cryptocompare-hour",
		Columns:   model.ChartData{{Time: base, Value: 1, Open: 1, High: 1, Low: 1, Count: 2}},
		CreatedAt: base,
	}
	newer := &ChartSnapshot{
		Pair: "BTC/USD", Period: model.PeriodTypeDay, Provider: "cryptocompare-hour",
		Columns: model.ChartData{
			{Time: base, Value: 10, Open: 9, High: 11, Low: 8, Count: 2},
			{Time: base.Add(2 * time.Hour), Value: 12, Open: 10, High: 13, Low: 10, Count: 2},
		},
		CreatedAt: base.Add(time.Minute),
	}
	sum, err := calculator.Summarize(newer.Columns)
	require.NoError(t, err)
	newer.Summary = &sum

	require.NoError(t, r.RecordChart(ctx, older))
	require.NoError(t, r.RecordChart(ctx, newer))
	assert.NotEmpty(t, older.ID)
	assert.NotEqual(t, older.ID, newer.ID)

	got, err := r.LatestChart(ctx, "BTC/USD", model.PeriodTypeDay)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
	assert.Equal(t, "cryptocompare-hour", got.Provider)
	require.Len(t, got.Columns, 2)
	assert.Equal(t, 12.0, got.Columns[1].Value)
	assert.True(t, got.Columns[1].Time.Equal(base.Add(2*time.Hour)))
	require.NotNil(t, got.Summary)
	assert.Equal(t, 13.0, got.Summary.High)
}

func TestSQLRecorder_LatestKeepsRecordedSummary(t *testing.T) {
	r := newSQLite(t)
	ctx := context.Background()

	// Rising with a dip on every odd hour: RSI needs the raw closes, not the 12 column values.
	base := time.Unix(1700000000, 0).UTC()
	var series model.Series
	for i := 0; i < 24; i++ {
		c := 100 + float64(i)
		if i%2 == 1 {
			c -= 1.5
		}
		series = append(series, model.Sample{Time: base.Add(time.Duration(i) * time.Hour), Open: c, High: c + 1, Low: c - 1, Close: c})
	}
	cols := chart.CryptocompareFormatter{}.Format(series, 2)
	sum, err := calculator.Summarize(cols)
	require.NoError(t, err)
	require.NotEqual(t, 50.0, sum.RSI)

	require.NoError(t, r.RecordChart(ctx, &ChartSnapshot{
		Pair: "BTC/USD", Period: model.PeriodTypeDay, Provider: "cryptocompare-hour",
		Columns: cols, Summary: &sum,
	}))

	got, err := r.LatestChart(ctx, "BTC/USD", model.PeriodTypeDay)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Summary)
	assert.Equal(t, sum, *got.Summary)
}

func TestSQLRecorder_LatestWithoutSummary(t *testing.T) {
	r := newSQLite(t)
	ctx := context.Background()
	require.NoError(t, r.RecordChart(ctx, &ChartSnapshot{Pair: "ETH/USD", Period: model.PeriodTypeHour, Columns: model.ChartData{}}))

	got, err := r.LatestChart(ctx, "ETH/USD", model.PeriodTypeHour)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Summary)
	assert.Empty(t, got.Columns)
}

func TestSQLRecorder_LatestMissing(t *testing.T) {
	r := newSQLite(t)
	got, err := r.LatestChart(context.Background(), "ETH/EUR", model.PeriodTypeYear)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLRecorder_UnsupportedDriver(t *testing.T) {
	_, err := NewSQLRecorder("mysql", "dsn")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &SQLRecorder{driver: "postgres"}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
	lite := &SQLRecorder{driver: "sqlite"}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordChart(context.Background(), &ChartSnapshot{}))
	got, err := r.LatestChart(context.Background(), "BTC/USD", model.PeriodTypeDay)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, r.Close())
}
