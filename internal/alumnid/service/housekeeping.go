package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/metrics"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
)

// HousekeepingService periodically removes expired sessions, login
// challenges and password resets.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Retention keeps expired and revoked rows around for a while so a late
	// refresh attempt is still recognised as reuse.
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. If interval is 0
// or negative it defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: 24 * time.Hour,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background(), time.Now())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background(), time.Now())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass. Each table is cleaned independently; a
// failure in one does not stop the others. It returns the number of rows
// deleted.
func (s *HousekeepingService) Cleanup(ctx context.Context, now time.Time) int64 {
	sessionCutoff := now.Add(-s.Retention)

	tasks := []struct {
		table string
		fn    func() (int64, error)
	}{
		{"sessions", func() (int64, error) { return s.Store.Sessions().DeleteExpiredSessions(ctx, sessionCutoff) }},
		{"login_challenges", func() (int64, error) { return s.Store.Challenges().DeleteExpiredChallenges(ctx, now) }},
		{"password_resets", func() (int64, error) { return s.Store.PasswordResets().DeleteExpiredResets(ctx, now) }},
	}

	var (
		total  int64
		failed bool
	)
	for _, task := range tasks {
		n, err := task.fn()
		if err != nil {
			s.Logger.Error("housekeeping delete failed", "table", task.table, "error", err)
			failed = true
			continue
		}
		total += n
		metrics.HousekeepingDeleted.WithLabelValues(task.table).Add(float64(n))
		s.Logger.Debug("housekeeping deleted rows", "table", task.table, "count", n)
	}

	status := metrics.ResultOK
	if failed {
		status = metrics.ResultFailed
	}
	metrics.HousekeepingRuns.WithLabelValues(status).Inc()
	s.Logger.Info("housekeeping cleanup completed", "deleted", total)
	return total
}
