package recorder

import "MarketFlash/internal/model"

// Recorder persists historical snapshots so trend and selection history can
// be inspected outside the live process.
type Recorder interface {
	RecordMetrics(rows []model.MetricsRow) error
	RecordSelection(profile string, picks []model.Pick) error
	Close() error
}
