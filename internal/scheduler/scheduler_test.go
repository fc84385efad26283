package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartFeed/internal/calculator"
	"ChartFeed/internal/chart"
	"ChartFeed/internal/collector"
	"ChartFeed/internal/currency"
	"ChartFeed/internal/model"
	"ChartFeed/internal/recorder"
)

type fakeCharts struct {
	fail map[model.PeriodType]error
	mu   sync.Mutex
	hits int
}

func (f *fakeCharts) Compute(_ context.Context, from, to model.Currency, period model.PeriodType) (*chart.Result, error) {
	f.mu.Lock()
	f.hits++
	f.mu.Unlock()
	if err := f.fail[period]; err != nil {
		return nil, err
	}
	series := collector.GenerateSeries(100, 24, time.Unix(1700000000, 0).UTC(), time.Hour)
	cols := chart.CryptocompareFormatter{}.Format(series, 2)
	sum, _ := calculator.Summarize(cols)
	return &chart.Result{
		Pair: model.Pair{From: from, To: to}, Period: period,
		Provider: "cryptocompare-hour", Columns: cols, Summary: &sum,
	}, nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

type memRecorder struct {
	recorder.NoopRecorder
	snaps []*recorder.ChartSnapshot
}

func (m *memRecorder) RecordChart(_ context.Context, s *recorder.ChartSnapshot) error {
	m.snaps = append(m.snaps, s)
	return nil
}

func newTestScheduler(t *testing.T, charts ChartComputer, n *fakeNotifier, rec recorder.Recorder) *Scheduler {
	t.Helper()
	reg := currency.NewRegistry(currency.Defaults())
	var s *Scheduler
	if n == nil {
		s = NewScheduler(context.Background(), charts, reg, nil, rec)
	} else {
		s = NewScheduler(context.Background(), charts, reg, n, rec)
	}
	btcUSD, err := reg.ParsePair("BTC/USD")
	require.NoError(t, err)
	ethEUR, err := reg.ParsePair("ETH/EUR")
	require.NoError(t, err)
	s.Watch([]model.Pair{btcUSD, ethEUR}, []model.PeriodType{model.PeriodTypeDay, model.PeriodTypeWeek})
	return s
}

func TestRunNow_RecordsEveryChart(t *testing.T) {
	charts := &fakeCharts{}
	rec := &memRecorder{}
	n := &fakeNotifier{}
	s := newTestScheduler(t, charts, n, rec)

	failures := s.RunNow()
	assert.Empty(t, failures)
	assert.Equal(t, 4, charts.hits)
	require.Len(t, rec.snaps, 4)
	assert.Equal(t, "BTC/USD", rec.snaps[0].Pair)
	assert.Equal(t, model.PeriodTypeDay, rec.snaps[0].Period)
	assert.Len(t, rec.snaps[0].Columns, 12)
	assert.Empty(t, n.sent)
}

func TestRunNow_AlertsOnFailure(t *testing.T) {
	charts := &fakeCharts{fail: map[model.PeriodType]error{
		model.PeriodTypeWeek: &collector.APIRequestError{Endpoint: "histoday", Status: 500, Err: errors.New("boom")},
	}}
	rec := &memRecorder{}
	n := &fakeNotifier{}
	s := newTestScheduler(t, charts, n, rec)

	failures := s.RunNow()
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[0].Err, collector.ErrAPIRequest)
	assert.Len(t, rec.snaps, 2)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "2 of 4 charts failed")
}

func TestRunNow_NoNotifier(t *testing.T) {
	charts := &fakeCharts{fail: map[model.PeriodType]error{model.PeriodTypeDay: errors.New("down")}}
	s := newTestScheduler(t, charts, nil, nil)
	assert.Len(t, s.RunNow(), 2)
}

func TestRegister(t *testing.T) {
	s := newTestScheduler(t, &fakeCharts{}, nil, nil)
	assert.NoError(t, s.Register("0 */15 * * * *"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron"))
}

func TestHandleCommand(t *testing.T) {
	s := newTestScheduler(t, &fakeCharts{}, nil, nil)
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/chart btc usd day")
	assert.Contains(t, reply, "<b>BTC/USD</b> | day")
	assert.Contains(t, reply, "Columns: 12")

	assert.Contains(t, s.HandleCommand(ctx, "/chart BTC XYZ day"), "XYZ")
	assert.Contains(t, s.HandleCommand(ctx, "/chart BTC USD bogus"), "bogus")
	assert.Contains(t, s.HandleCommand(ctx, "/help"), "/chart &lt;from&gt; &lt;to&gt; &lt;period&gt;")
	assert.Contains(t, s.HandleCommand(ctx, "/refresh"), "0 failed")
}

// assertTelegramHTML fails when text carries markup other than <b>, which Telegram's HTML mode would reject.
func assertTelegramHTML(t *testing.T, text string) {
	t.Helper()
	stripped := strings.NewReplacer("<b>", "", "</b>", "").Replace(text)
	assert.NotContains(t, stripped, "<", "unescaped markup in %q", text)
	assert.NotContains(t, stripped, ">", "unescaped markup in %q", text)
}

func TestHandleCommand_RepliesAreValidHTML(t *testing.T) {
	charts := &fakeCharts{fail: map[model.PeriodType]error{
		model.PeriodTypeYear: errors.New("status 502: <html>bad gateway</html>"),
	}}
	s := newTestScheduler(t, charts, nil, nil)
	ctx := context.Background()

	for _, cmd := range []string{
		"/help",
		"/chart",
		"/chart BTC <x> day",
		"/chart BTC USD <period>",
		"/chart BTC USD year",
		"/chart BTC USD day",
	} {
		assertTelegramHTML(t, s.HandleCommand(ctx, cmd))
	}
	assert.Contains(t, s.HandleCommand(ctx, "/chart BTC <x> day"), "&lt;x&gt;")
}
