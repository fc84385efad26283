package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// RefreshFailure describes one pair/period that could not be refreshed.
type RefreshFailure struct {
	Pair   string
	Period string
	Err    error
}

// FormatRefreshFailures formats a scheduled refresh pass that had failures into a Telegram message.
func FormatRefreshFailures(at time.Time, total int, failures []RefreshFailure) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("❌ <b>ChartFeed refresh</b> | %s\n\n", at.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%d of %d charts failed:\n", len(failures), total))
	for _, f := range failures {
		b.WriteString(fmt.Sprintf("  %s %s: %s\n", f.Pair, f.Period, html.EscapeString(f.Err.Error())))
	}
	return b.String()
}

// ChartSummary is the subset of a computed chart shown in a command reply.
type ChartSummary struct {
	Pair          string
	Period        string
	Columns       int
	Open          float64
	Last          float64
	High          float64
	Low           float64
	ChangePercent float64
}

// FormatChartSummary formats a chart reply for the /chart command.
func FormatChartSummary(s ChartSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", s.Pair, s.Period))
	b.WriteString(fmt.Sprintf("Last: %.2f (%+.2f%%)\n", s.Last, s.ChangePercent))
	b.WriteString(fmt.Sprintf("Open: %.2f\n", s.Open))
	b.WriteString(fmt.Sprintf("High: %.2f | Low: %.2f\n", s.High, s.Low))
	b.WriteString(fmt.Sprintf("Columns: %d\n", s.Columns))
	return b.String()
}
