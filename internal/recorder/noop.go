package recorder

import "MarketFlash/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordMetrics(_ []model.MetricsRow) error       { return nil }
func (n *NoopRecorder) RecordSelection(_ string, _ []model.Pick) error { return nil }
func (n *NoopRecorder) Close() error                                   { return nil }
