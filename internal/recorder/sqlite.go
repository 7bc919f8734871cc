package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"MarketFlash/internal/model"
)

// SQLiteRecorder persists snapshot history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	log *zap.SugaredLogger
	mu  sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.SugaredLogger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboard reads
	// while the snapshot job writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if log != nil {
		log.Infow("sqlite recorder opened", "path", dbPath)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS metrics_snapshots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			ticker     TEXT NOT NULL,
			market     TEXT,
			close      REAL,
			ma20       REAL,
			ma50       REAL,
			ma120      REAL,
			ma240      REAL,
			atr14      REAL,
			trend_st   REAL,
			trend_lt   REAL,
			pct_1d     REAL,
			pct_7d     REAL,
			pct_30d    REAL,
			ia_score   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_ts ON metrics_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_ticker ON metrics_snapshots(ticker)`,

		`CREATE TABLE IF NOT EXISTS selection_snapshots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			profile    TEXT,
			rank       INTEGER,
			ticker     TEXT NOT NULL,
			score      REAL,
			close      REAL,
			entry      REAL,
			target     REAL,
			stop       REAL,
			proximity  REAL,
			signal     TEXT,
			advice     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_selection_ts ON selection_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// nullable maps NaN onto SQL NULL so undefined indicators stay undefined in
// the recorded history too.
func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func (r *SQLiteRecorder) RecordMetrics(rows []model.MetricsRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, m := range rows {
		_, err := r.db.Exec(`INSERT INTO metrics_snapshots
			(timestamp, ticker, market, close, ma20, ma50, ma120, ma240, atr14,
			 trend_st, trend_lt, pct_1d, pct_7d, pct_30d, ia_score)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			now, m.Ticker, m.Index, nullable(m.Close),
			nullable(m.MA20), nullable(m.MA50), nullable(m.MA120), nullable(m.MA240),
			nullable(m.ATR14), nullable(m.TrendST), nullable(m.TrendLT),
			nullable(m.Pct1D), nullable(m.Pct7D), nullable(m.Pct30D), nullable(m.IAScore),
		)
		if err != nil {
			return fmt.Errorf("insert metrics snapshot %s: %w", m.Ticker, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSelection(profile string, picks []model.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for i, p := range picks {
		_, err := r.db.Exec(`INSERT INTO selection_snapshots
			(timestamp, profile, rank, ticker, score, close, entry, target, stop, proximity, signal, advice)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			now, profile, i+1, p.Ticker, nullable(p.Score), nullable(p.Close),
			nullable(p.Levels.Entry), nullable(p.Levels.Target), nullable(p.Levels.Stop),
			nullable(p.Proximity), string(p.Signal), string(p.Advice),
		)
		if err != nil {
			return fmt.Errorf("insert selection snapshot %s: %w", p.Ticker, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	if r.log != nil {
		r.log.Info("closing sqlite recorder")
	}
	return r.db.Close()
}
