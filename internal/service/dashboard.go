package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/autotrack/autotrack/internal/metrics"
	"github.com/autotrack/autotrack/internal/model"
)

// DashboardService aggregates a user's garage into summary counts.
type DashboardService struct {
	cars    CarStore
	tasks   TaskStore
	stats   StatsCache
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(cars CarStore, tasks TaskStore, stats StatsCache, logger *slog.Logger, recorder metrics.Recorder) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DashboardService{
		cars:    cars,
		tasks:   tasks,
		stats:   stats,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// Summarize computes dashboard stats for the caller. Results come from a
// short-lived cache when available; a fresh computation evaluates every task
// at a single instant so the counts always sum to the task total.
func (s *DashboardService) Summarize(ctx context.Context, userID string) (*model.DashboardStats, error) {
	if s.stats != nil {
		cached, err := s.stats.GetDashboardStats(ctx, userID)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", "user_id", userID, "error", err)
		} else if cached != nil {
			s.metrics.IncDashboardCacheHit()
			return cached, nil
		}
		s.metrics.IncDashboardCacheMiss()
	}

	start := s.now()
	stats, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSummarizeDuration(s.now().Sub(start))

	if s.stats != nil {
		if err := s.stats.SetDashboardStats(ctx, userID, stats); err != nil {
			s.logger.Warn("dashboard cache write failed", "user_id", userID, "error", err)
		}
	}
	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context, userID string) (*model.DashboardStats, error) {
	cars, err := s.cars.ListCars(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	tasks, err := s.tasks.ListTasks(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	mileages := make(map[string]int64, len(cars))
	for _, c := range cars {
		mileages[c.ID] = c.CurrentMileage
	}

	now := s.now().UTC()
	stats := &model.DashboardStats{
		TotalCars:  len(cars),
		TotalTasks: len(tasks),
	}
	for _, t := range tasks {
		switch t.Evaluate(mileages[t.CarID], now).Status {
		case model.StatusOverdue:
			stats.Overdue++
		case model.StatusDueSoon:
			stats.DueSoon++
		default:
			stats.Good++
		}
	}
	return stats, nil
}
