package recorder

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketFlash/internal/logging"
	"MarketFlash/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordMetricsStoresNaNAsNull(t *testing.T) {
	r := openTestRecorder(t)

	rows := []model.MetricsRow{
		{Ticker: "AAA.PA", Index: "CAC 40", Date: time.Now(), Close: 100, MA20: 99.5, MA240: math.NaN(), IAScore: 61},
		{Ticker: "BBB.PA", Index: "CAC 40", Date: time.Now(), Close: 50, MA20: math.NaN(), MA240: math.NaN(), IAScore: math.NaN()},
	}
	require.NoError(t, r.RecordMetrics(rows))

	var count int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM metrics_snapshots").Scan(&count))
	assert.Equal(t, 2, count)

	var nulls int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM metrics_snapshots WHERE ma240 IS NULL").Scan(&nulls))
	assert.Equal(t, 2, nulls)

	var ma20 float64
	require.NoError(t, r.db.QueryRow("SELECT ma20 FROM metrics_snapshots WHERE ticker = 'AAA.PA'").Scan(&ma20))
	assert.InDelta(t, 99.5, ma20, 1e-9)
}

func TestRecordSelectionKeepsRankOrder(t *testing.T) {
	r := openTestRecorder(t)

	picks := []model.Pick{
		{MetricsRow: model.MetricsRow{Ticker: "AAA.PA", Close: 100}, Score: 0.8,
			Levels: model.Levels{Entry: 99, Target: 107, Stop: 95}, Signal: model.SignalNear, Advice: model.AdviceBuy},
		{MetricsRow: model.MetricsRow{Ticker: "BBB.PA", Close: 50}, Score: 0.2,
			Levels: model.Levels{Entry: 49.5, Target: 53, Stop: 47}, Signal: model.SignalFar, Advice: model.AdviceWatch},
	}
	require.NoError(t, r.RecordSelection("Neutral", picks))

	type line struct {
		rank   int
		ticker string
		advice string
	}
	rows, err := r.db.Query("SELECT rank, ticker, advice FROM selection_snapshots ORDER BY rank")
	require.NoError(t, err)
	defer rows.Close()

	var got []line
	for rows.Next() {
		var l line
		require.NoError(t, rows.Scan(&l.rank, &l.ticker, &l.advice))
		got = append(got, l)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)
	assert.Equal(t, line{1, "AAA.PA", "BUY"}, got[0])
	assert.Equal(t, line{2, "BBB.PA", "WATCH"}, got[1])
}

func TestNoopRecorderIsSilent(t *testing.T) {
	n := NewNoopRecorder()
	assert.NoError(t, n.RecordMetrics(nil))
	assert.NoError(t, n.RecordSelection("Neutral", nil))
	assert.NoError(t, n.Close())
}
