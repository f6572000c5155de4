package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/autotrack/autotrack/internal/metrics"
	"github.com/autotrack/autotrack/internal/model"
)

const (
	// DefaultPollInterval is the time between reminder scans.
	DefaultPollInterval = 1 * time.Hour
	// DedupeWindow suppresses repeat notifications about the same task.
	DedupeWindow = 24 * time.Hour
)

// Store is the persistence surface the worker needs.
// *repository.Repository satisfies it.
type Store interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListCars(ctx context.Context, userID string) ([]*model.Car, error)
	ListTasks(ctx context.Context, userID, carID string) ([]*model.MaintenanceTask, error)
	CreateNotification(ctx context.Context, n *model.Notification) error
	HasRecentNotification(ctx context.Context, userID, title string, window time.Duration) (bool, error)
}

// Worker periodically scans every garage for tasks that are due or coming
// due and fans the results out as in-app notifications and reminder emails.
type Worker struct {
	store        Store
	mailer       Mailer
	logger       *slog.Logger
	metrics      metrics.Recorder
	pollInterval time.Duration
	now          func() time.Time
	started      bool
}

// NewWorker creates a reminder worker.
func NewWorker(store Store, mailer Mailer, logger *slog.Logger, recorder metrics.Recorder) *Worker {
	if mailer == nil {
		mailer = NoopMailer{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Worker{
		store:        store,
		mailer:       mailer,
		logger:       logger.With("component", "notify.worker"),
		metrics:      recorder,
		pollInterval: DefaultPollInterval,
		now:          time.Now,
	}
}

// SetPollInterval overrides the scan interval. Must be called before Run.
func (w *Worker) SetPollInterval(d time.Duration) {
	if d > 0 {
		w.pollInterval = d
	}
}

// Run starts the worker loop. Blocks until context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w.started {
		return errors.New("worker already started")
	}
	w.started = true

	w.logger.Info("reminder worker started", "poll_interval", w.pollInterval)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.ScanOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Error("scan error", "error", err)
			}
		}
	}
}

// ScanOnce runs a single reminder scan across all users.
func (w *Worker) ScanOnce(ctx context.Context) error {
	users, err := w.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, user := range users {
		if err := w.scanUser(ctx, user); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			w.logger.Warn("user scan failed", "user_id", user.ID, "error", err)
		}
	}
	return nil
}

func (w *Worker) scanUser(ctx context.Context, user *model.User) error {
	cars, err := w.store.ListCars(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list cars: %w", err)
	}
	tasks, err := w.store.ListTasks(ctx, user.ID, "")
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	carsByID := make(map[string]*model.Car, len(cars))
	for _, c := range cars {
		carsByID[c.ID] = c
	}

	now := w.now().UTC()
	for _, task := range tasks {
		car := carsByID[task.CarID]
		var mileage int64
		if car != nil {
			mileage = car.CurrentMileage
		}

		ev := task.Evaluate(mileage, now)
		if !w.shouldRemind(ev, user.Settings, now) {
			continue
		}
		if err := w.remind(ctx, user, car, task, ev); err != nil {
			return err
		}
	}
	return nil
}

// shouldRemind decides whether a task's evaluation warrants a reminder.
// Overdue always does. A due-soon task only does once its date deadline is
// within the user's reminder_days_before preference, or when it is mileage
// driven and has no date deadline at all.
func (w *Worker) shouldRemind(ev model.Evaluation, settings model.UserSettings, now time.Time) bool {
	switch ev.Status {
	case model.StatusOverdue:
		return true
	case model.StatusDueSoon:
		if ev.NextDueDate == nil {
			return true
		}
		lead := time.Duration(settings.ReminderDaysBefore) * 24 * time.Hour
		return !now.Before(ev.NextDueDate.Add(-lead))
	default:
		return false
	}
}

func (w *Worker) remind(ctx context.Context, user *model.User, car *model.Car, task *model.MaintenanceTask, ev model.Evaluation) error {
	carName := "your car"
	if car != nil {
		carName = car.DisplayName()
	}

	var title, message string
	if ev.Status == model.StatusOverdue {
		title = fmt.Sprintf("%s overdue for %s", task.TaskType, carName)
		message = fmt.Sprintf("The %s on %s is overdue. Schedule it as soon as possible.", task.TaskType, carName)
	} else {
		title = fmt.Sprintf("%s due soon for %s", task.TaskType, carName)
		message = fmt.Sprintf("The %s on %s is coming due.", task.TaskType, carName)
	}

	recent, err := w.store.HasRecentNotification(ctx, user.ID, title, DedupeWindow)
	if err != nil {
		return fmt.Errorf("check recent notification: %w", err)
	}
	if recent {
		w.metrics.IncReminderEmail("skipped")
		return nil
	}

	n := &model.Notification{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		Title:     title,
		Message:   message,
		Type:      model.NotificationMaintenanceDue,
		CreatedAt: w.now().UTC(),
	}
	if err := w.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	w.metrics.IncNotificationCreated()

	if !user.Settings.EmailReminders {
		w.metrics.IncReminderEmail("skipped")
		return nil
	}

	if err := w.mailer.Send(ctx, user.Email, title, message); err != nil {
		w.metrics.IncReminderEmail("failed")
		w.logger.Warn("reminder email failed", "user_id", user.ID, "error", err)
		return nil
	}
	w.metrics.IncReminderEmail("sent")
	return nil
}
