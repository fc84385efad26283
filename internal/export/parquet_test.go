package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartFeed/internal/collector"
	"ChartFeed/internal/model"
)

var btcUSD = model.Pair{
	From: model.Currency{ID: 1, Code: "BTC", Title: "Bitcoin"},
	To:   model.Currency{ID: 3, Code: "USD", Title: "US Dollar"},
}

func TestFileName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "BTC-USD_3-month.parquet"), FileName("out", btcUSD, model.PeriodType3Month))
}

func TestWriteReadSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.parquet")
	series := collector.GenerateSeries(100, 30, time.Unix(1700000000, 0).UTC(), 24*time.Hour)

	require.NoError(t, WriteSeries(path, btcUSD, model.GranularityDay, series))

	got, err := ReadSeries(path)
	require.NoError(t, err)
	require.Len(t, got, len(series))
	for i := range series {
		assert.True(t, got[i].Time.Equal(series[i].Time), "sample %d time", i)
		assert.Equal(t, series[i].Close, got[i].Close, "sample %d close", i)
		assert.Equal(t, series[i].VolumeTo, got[i].VolumeTo, "sample %d volume", i)
	}
}

func TestWriteSeries_BadPath(t *testing.T) {
	err := WriteSeries(filepath.Join(t.TempDir(), "missing", "x.parquet"), btcUSD, model.GranularityDay, nil)
	assert.Error(t, err)
}
