package notifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollOnce_DispatchesCommands(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			assert.Equal(t, "7", r.URL.Query().Get("offset"))
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /chart BTC USD day "}},
				{"update_id":8},
				{"update_id":9,"message":{"text":"/noop"}}
			]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			buf, _ := io.ReadAll(r.Body)
			mu.Lock()
			replies = append(replies, string(buf))
			mu.Unlock()
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL

	var seen []string
	next, err := tn.pollOnce(context.Background(), srv.Client(), 7, 0, func(_ context.Context, cmd string) string {
		seen = append(seen, cmd)
		if cmd == "/noop" {
			return ""
		}
		return "ok " + cmd
	})
	require.NoError(t, err)
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/chart BTC USD day", "/noop"}, seen)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "ok /chart BTC USD day")
}

func TestPollOnce_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	next, err := tn.pollOnce(context.Background(), srv.Client(), 3, 0, func(context.Context, string) string { return "" })
	assert.Error(t, err)
	assert.Equal(t, 3, next)
}

func TestFormatChartSummary(t *testing.T) {
	msg := FormatChartSummary(ChartSummary{Pair: "BTC/USD", Period: "day", Columns: 12, Open: 100, Last: 110, High: 120, Low: 90, ChangePercent: 10})
	assert.Contains(t, msg, "<b>BTC/USD</b> | day")
	assert.Contains(t, msg, "Last: 110.00 (+10.00%)")
	assert.Contains(t, msg, "High: 120.00 | Low: 90.00")
}
