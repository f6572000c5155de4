package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/autotrack/autotrack/internal/metrics"
	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/repository"
)

// TaskService manages recurring maintenance tasks and their due status.
type TaskService struct {
	tasks   TaskStore
	cars    CarStore
	stats   StatsCache
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, cars CarStore, stats StatsCache, logger *slog.Logger, recorder metrics.Recorder) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		tasks:   tasks,
		cars:    cars,
		stats:   stats,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// CreateTaskInput defines input for creating a maintenance task. Nil interval
// fields fall back to defaults; explicit non-positive values are rejected.
type CreateTaskInput struct {
	CarID                string
	TaskType             string
	Description          string
	Notes                string
	Cost                 *float64
	LastPerformedDate    *time.Time
	LastPerformedMileage *int64
	IntervalMiles        *int64
	IntervalMonths       *int
}

// CreateTask creates a maintenance task on a car the caller owns.
func (s *TaskService) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*model.TaskWithStatus, error) {
	input.TaskType = strings.TrimSpace(input.TaskType)
	if input.TaskType == "" {
		return nil, fmt.Errorf("%w: task_type is required", ErrInvalidInput)
	}
	if input.Cost != nil && *input.Cost < 0 {
		return nil, fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	if input.LastPerformedMileage != nil && *input.LastPerformedMileage < 0 {
		return nil, fmt.Errorf("%w: last_performed_mileage must not be negative", ErrInvalidInput)
	}

	intervalMiles := model.DefaultIntervalMiles
	if input.IntervalMiles != nil {
		if *input.IntervalMiles <= 0 {
			return nil, fmt.Errorf("%w: interval_miles must be positive", ErrInvalidInput)
		}
		intervalMiles = *input.IntervalMiles
	}
	intervalMonths := model.DefaultIntervalMonths
	if input.IntervalMonths != nil {
		if *input.IntervalMonths <= 0 {
			return nil, fmt.Errorf("%w: interval_months must be positive", ErrInvalidInput)
		}
		intervalMonths = *input.IntervalMonths
	}

	car, err := s.cars.GetCar(ctx, userID, input.CarID)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	task := &model.MaintenanceTask{
		ID:                   ulid.Make().String(),
		UserID:               userID,
		CarID:                input.CarID,
		TaskType:             input.TaskType,
		Description:          strings.TrimSpace(input.Description),
		Notes:                strings.TrimSpace(input.Notes),
		Cost:                 input.Cost,
		LastPerformedDate:    normalizeDate(input.LastPerformedDate),
		LastPerformedMileage: input.LastPerformedMileage,
		IntervalMiles:        intervalMiles,
		IntervalMonths:       intervalMonths,
		CreatedAt:            s.now().UTC(),
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.metrics.IncTaskCreated()
	s.invalidateStats(ctx, userID)
	return task.WithStatus(car.CurrentMileage, s.now().UTC()), nil
}

// GetTask returns a task with its freshly computed status.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*model.TaskWithStatus, error) {
	task, err := s.tasks.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task.WithStatus(s.carMileage(ctx, userID, task.CarID), s.now().UTC()), nil
}

// ListTasks returns the caller's tasks annotated with status, optionally
// filtered to one car. carID may be empty.
func (s *TaskService) ListTasks(ctx context.Context, userID, carID string) ([]*model.TaskWithStatus, error) {
	tasks, err := s.tasks.ListTasks(ctx, userID, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	mileages, err := s.mileageByCar(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := make([]*model.TaskWithStatus, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.WithStatus(mileages[t.CarID], now))
	}
	return out, nil
}

// UpdateTaskInput defines input for updating a task. Nil fields are
// unchanged.
type UpdateTaskInput struct {
	TaskType             *string
	Description          *string
	Notes                *string
	Cost                 *float64
	LastPerformedDate    *time.Time
	LastPerformedMileage *int64
	IntervalMiles        *int64
	IntervalMonths       *int
}

func (in UpdateTaskInput) empty() bool {
	return in.TaskType == nil && in.Description == nil && in.Notes == nil && in.Cost == nil &&
		in.LastPerformedDate == nil && in.LastPerformedMileage == nil &&
		in.IntervalMiles == nil && in.IntervalMonths == nil
}

// UpdateTask applies a partial update to a task and returns it with its
// recomputed status.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*model.TaskWithStatus, error) {
	if input.empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	task, err := s.tasks.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if input.TaskType != nil {
		v := strings.TrimSpace(*input.TaskType)
		if v == "" {
			return nil, fmt.Errorf("%w: task_type must not be empty", ErrInvalidInput)
		}
		task.TaskType = v
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Notes != nil {
		task.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.Cost != nil {
		if *input.Cost < 0 {
			return nil, fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
		}
		task.Cost = input.Cost
	}
	if input.LastPerformedDate != nil {
		task.LastPerformedDate = normalizeDate(input.LastPerformedDate)
	}
	if input.LastPerformedMileage != nil {
		if *input.LastPerformedMileage < 0 {
			return nil, fmt.Errorf("%w: last_performed_mileage must not be negative", ErrInvalidInput)
		}
		task.LastPerformedMileage = input.LastPerformedMileage
	}
	if input.IntervalMiles != nil {
		if *input.IntervalMiles <= 0 {
			return nil, fmt.Errorf("%w: interval_miles must be positive", ErrInvalidInput)
		}
		task.IntervalMiles = *input.IntervalMiles
	}
	if input.IntervalMonths != nil {
		if *input.IntervalMonths <= 0 {
			return nil, fmt.Errorf("%w: interval_months must be positive", ErrInvalidInput)
		}
		task.IntervalMonths = *input.IntervalMonths
	}

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.metrics.IncTaskUpdated()
	s.invalidateStats(ctx, userID)
	return task.WithStatus(s.carMileage(ctx, userID, task.CarID), s.now().UTC()), nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := s.tasks.DeleteTask(ctx, userID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.invalidateStats(ctx, userID)
	return nil
}

// CompleteTask marks a task as performed now at the given odometer reading.
// Both baselines are reset, which restarts the mileage and date schedules
// together, and the car's odometer is raised if the reading is ahead of it.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID string, mileage int64) (*model.TaskWithStatus, error) {
	if mileage < 0 {
		return nil, fmt.Errorf("%w: mileage must not be negative", ErrInvalidInput)
	}

	task, err := s.tasks.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	now := s.now().UTC()
	task.LastPerformedDate = &now
	task.LastPerformedMileage = &mileage

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := s.cars.RaiseCarMileage(ctx, task.CarID, mileage); err != nil {
		return nil, fmt.Errorf("failed to raise car mileage: %w", err)
	}

	s.metrics.IncTaskCompleted()
	s.invalidateStats(ctx, userID)
	return task.WithStatus(s.carMileage(ctx, userID, task.CarID), now), nil
}

// carMileage returns the current mileage of the caller's car, or 0 when the
// car cannot be resolved. A task whose car is missing still evaluates, just
// against a zero odometer.
func (s *TaskService) carMileage(ctx context.Context, userID, carID string) int64 {
	car, err := s.cars.GetCar(ctx, userID, carID)
	if err != nil {
		return 0
	}
	return car.CurrentMileage
}

// mileageByCar returns current mileage keyed by car ID for the caller's
// whole garage. Tasks on cars absent from the map evaluate against 0.
func (s *TaskService) mileageByCar(ctx context.Context, userID string) (map[string]int64, error) {
	cars, err := s.cars.ListCars(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	m := make(map[string]int64, len(cars))
	for _, c := range cars {
		m[c.ID] = c.CurrentMileage
	}
	return m, nil
}

func (s *TaskService) invalidateStats(ctx context.Context, userID string) {
	if s.stats == nil {
		return
	}
	if err := s.stats.InvalidateDashboardStats(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate dashboard stats", "user_id", userID, "error", err)
	}
}

// normalizeDate maps zero timestamps to absent so the status engine never
// counts from the epoch.
func normalizeDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
