package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartFeed/internal/collector"
	"ChartFeed/internal/model"
)

var _ collector.SeriesCache = (*RedisCache)(nil)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestSetGetSeries_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := "history:hour:BTC:USD:24"

	base := time.Unix(1700000000, 0).UTC()
	series := model.Series{
		{Time: base, Open: 100.5, High: 101.25, Low: 99.75, Close: 100.125, VolumeFrom: 12.5, VolumeTo: 1251.5},
		{Time: base.Add(time.Hour), Open: 100.125, High: 103, Low: 100, Close: 102.875, VolumeFrom: 3, VolumeTo: 308.625},
	}
	require.NoError(t, c.SetSeries(ctx, key, series, 10*time.Minute))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	got, ok, err := c.GetSeries(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, len(series))
	for i := range series {
		assert.True(t, got[i].Time.Equal(series[i].Time), "sample %d time", i)
		assert.Equal(t, series[i].Open, got[i].Open)
		assert.Equal(t, series[i].High, got[i].High)
		assert.Equal(t, series[i].Low, got[i].Low)
		assert.Equal(t, series[i].Close, got[i].Close)
		assert.Equal(t, series[i].VolumeFrom, got[i].VolumeFrom)
		assert.Equal(t, series[i].VolumeTo, got[i].VolumeTo)
	}
}

func TestGetSeries_MissingKey(t *testing.T) {
	c, _ := newTestCache(t)
	got, ok, err := c.GetSeries(context.Background(), "history:day:ETH:EUR:30")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestGetSeries_Expired(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := "history:minute:BTC:USD:60"
	require.NoError(t, c.SetSeries(ctx, key, model.Series{{Time: time.Unix(1700000000, 0).UTC(), Close: 1}}, time.Minute))

	mr.FastForward(2 * time.Minute)
	_, ok, err := c.GetSeries(ctx, key)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGetSeries_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("history:day:BTC:USD:7", "not json"))
	_, ok, err := c.GetSeries(context.Background(), "history:day:BTC:USD:7")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCachedProvider_WithRedis(t *testing.T) {
	c, _ := newTestCache(t)
	mock := &collector.MockProvider{
		From: model.Currency{Code: "BTC"}, To: model.Currency{Code: "USD"},
		Gran: model.GranularityDay, Price: 100, Count: 7,
	}
	p := collector.WithCache(mock, c, map[model.Granularity]time.Duration{model.GranularityDay: time.Hour})

	for i := 0; i < 3; i++ {
		s, err := p.FetchSeries(context.Background())
		require.NoError(t, err)
		assert.Len(t, s, 7)
	}
	assert.Equal(t, 1, mock.Calls)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	if _, err := NewRedisCache("127.0.0.1:1", "", 0); err == nil {
		t.Error("expected connection error for unreachable redis")
	}
}

func TestGetSeries_ErrorIsWrapped(t *testing.T) {
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer c.Close()

	series, ok, err := c.GetSeries(context.Background(), "history:day:BTC:USD:30")
	if err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if ok || series != nil {
		t.Error("expected miss on error")
	}
}
