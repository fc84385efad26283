package recorder

import (
	"context"

	"ChartFeed/internal/model"
)

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordChart(_ context.Context, _ *ChartSnapshot) error { return nil }
func (n *NoopRecorder) LatestChart(_ context.Context, _ string, _ model.PeriodType) (*ChartSnapshot, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
