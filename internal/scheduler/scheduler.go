package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"MarketFlash/internal/decision"
	"MarketFlash/internal/market"
	"MarketFlash/internal/recorder"
	"MarketFlash/internal/store"
)

// topN is how many ranked picks each snapshot keeps per profile.
const topN = 10

// CacheClearer is anything holding memoized data that should be refreshed
// before a scheduled snapshot runs.
type CacheClearer interface {
	Clear()
}

// Scheduler manages the periodic snapshot job.
type Scheduler struct {
	Cron     *cron.Cron
	Agg      *market.Aggregator
	Store    *store.Store
	Recorder recorder.Recorder
	Caches   []CacheClearer
	Markets  []string
	Days     int
	Ctx      context.Context
	log      *zap.SugaredLogger
}

// NewScheduler creates a scheduler around the aggregation pipeline.
func NewScheduler(ctx context.Context, agg *market.Aggregator, st *store.Store, rec recorder.Recorder, markets []string, days int, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Agg:      agg,
		Store:    st,
		Recorder: rec,
		Markets:  markets,
		Days:     days,
		Ctx:      ctx,
		log:      log,
	}
}

// AddCache registers a cache to be cleared before each snapshot.
func (s *Scheduler) AddCache(c CacheClearer) {
	if c != nil {
		s.Caches = append(s.Caches, c)
	}
}

// RegisterAll registers the snapshot task on its cron expression.
func (s *Scheduler) RegisterAll(snapshotCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately, for manual
// triggers and RUN_ON_START.
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

func (s *Scheduler) snapshotTask() {
	s.log.Infow("running snapshot task", "markets", s.Markets)

	for _, c := range s.Caches {
		c.Clear()
	}

	rows := s.Agg.FetchAll(s.Ctx, s.Markets, s.Days)
	if len(rows) == 0 {
		s.log.Warn("snapshot produced no rows, skipping record")
		return
	}

	if err := s.Recorder.RecordMetrics(rows); err != nil {
		s.log.Errorw("record metrics", "err", err)
	}

	profileName := s.Store.Profile()
	profile := decision.GetProfile(profileName)
	picks := decision.SelectTop(rows, profile, topN)
	if err := s.Recorder.RecordSelection(profileName, picks); err != nil {
		s.log.Errorw("record selection", "err", err)
	}

	s.log.Infow("snapshot complete", "rows", len(rows), "picks", len(picks))
}
