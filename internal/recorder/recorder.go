package recorder

import (
	"context"
	"time"

	"ChartFeed/internal/calculator"
	"ChartFeed/internal/model"
)

// ChartSnapshot is one computed chart, kept for history and the /latest endpoint.
type ChartSnapshot struct {
	ID        string              `json:"id"`
	Pair      string              `json:"pair"`
	Period    model.PeriodType    `json:"period"`
	Provider  string              `json:"provider"`
	Columns   model.ChartData     `json:"columns"`
	Summary   *calculator.Summary `json:"summary,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Recorder persists chart snapshots.
type Recorder interface {
	RecordChart(ctx context.Context, snap *ChartSnapshot) error
	// LatestChart returns (nil, nil) when nothing was recorded for pair and period.
	LatestChart(ctx context.Context, pair string, period model.PeriodType) (*ChartSnapshot, error)
	Close() error
}
