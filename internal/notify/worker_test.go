package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/autotrack/autotrack/internal/metrics"
	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+": "+subject)
	return nil
}

func newWorkerFixture(t *testing.T, now time.Time) (*Worker, *testutil.MemStore, *recordingMailer, *metrics.InMemoryRecorder) {
	t.Helper()
	store := testutil.NewMemStore()
	mailer := &recordingMailer{}
	rec := metrics.NewInMemory()
	w := NewWorker(store, mailer, discardLogger(), rec)
	w.now = func() time.Time { return now }
	return w, store, mailer, rec
}

func seedGarage(t *testing.T, store *testutil.MemStore, lastMileage int64) (*model.User, *model.Car, *model.MaintenanceTask) {
	t.Helper()
	ctx := context.Background()

	user := testutil.NewTestUser(t, "alex@example.com")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	car := testutil.NewTestCar(t, user.ID)
	car.CurrentMileage = 50000
	if err := store.CreateCar(ctx, car); err != nil {
		t.Fatalf("seed car: %v", err)
	}
	task := testutil.NewTestTask(t, user.ID, car.ID)
	task.LastPerformedDate = nil
	task.LastPerformedMileage = &lastMileage
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return user, car, task
}

func TestWorker_ScanOnce_OverdueTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w, store, mailer, rec := newWorkerFixture(t, now)
	user, _, _ := seedGarage(t, store, 40000) // due 45000, odometer 50000

	if err := w.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}

	notifications, err := store.ListNotifications(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	if notifications[0].Type != model.NotificationMaintenanceDue {
		t.Errorf("Type = %q", notifications[0].Type)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("emails sent = %d, want 1", len(mailer.sent))
	}
	if rec.Snapshot().ReminderEmailsSent != 1 {
		t.Errorf("ReminderEmailsSent = %d, want 1", rec.Snapshot().ReminderEmailsSent)
	}
}

func TestWorker_ScanOnce_DedupesWithinWindow(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	w, store, mailer, _ := newWorkerFixture(t, now)
	user, _, _ := seedGarage(t, store, 40000)

	if err := w.ScanOnce(context.Background()); err != nil {
		t.Fatalf("first ScanOnce: %v", err)
	}
	if err := w.ScanOnce(context.Background()); err != nil {
		t.Fatalf("second ScanOnce: %v", err)
	}

	notifications, err := store.ListNotifications(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Errorf("notifications = %d, want 1 after dedupe", len(notifications))
	}
	if len(mailer.sent) != 1 {
		t.Errorf("emails sent = %d, want 1 after dedupe", len(mailer.sent))
	}
}

func TestWorker_ScanOnce_RespectsEmailOptOut(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w, store, mailer, rec := newWorkerFixture(t, now)

	ctx := context.Background()
	user := testutil.NewTestUser(t, "quiet@example.com")
	user.Settings.EmailReminders = false
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	car := testutil.NewTestCar(t, user.ID)
	car.CurrentMileage = 50000
	if err := store.CreateCar(ctx, car); err != nil {
		t.Fatalf("seed car: %v", err)
	}
	base := int64(40000)
	task := testutil.NewTestTask(t, user.ID, car.ID)
	task.LastPerformedDate = nil
	task.LastPerformedMileage = &base
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	if err := w.ScanOnce(ctx); err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}

	// In-app notification still created; no email.
	notifications, err := store.ListNotifications(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifications))
	}
	if len(mailer.sent) != 0 {
		t.Errorf("emails sent = %d, want 0", len(mailer.sent))
	}
	if rec.Snapshot().ReminderEmailsSkipped != 1 {
		t.Errorf("ReminderEmailsSkipped = %d, want 1", rec.Snapshot().ReminderEmailsSkipped)
	}
}

func TestWorker_ScanOnce_GoodTaskStaysQuiet(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w, store, mailer, _ := newWorkerFixture(t, now)
	user, _, _ := seedGarage(t, store, 49000) // due 54000, well ahead

	if err := w.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}

	notifications, err := store.ListNotifications(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifications) != 0 {
		t.Errorf("notifications = %d, want 0", len(notifications))
	}
	if len(mailer.sent) != 0 {
		t.Errorf("emails sent = %d, want 0", len(mailer.sent))
	}
}

func TestWorker_ShouldRemind_DateLead(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w, _, _, _ := newWorkerFixture(t, now)

	settings := model.DefaultSettings() // 7 days lead

	near := now.Add(3 * 24 * time.Hour)
	far := now.Add(10 * 24 * time.Hour)

	if !w.shouldRemind(model.Evaluation{Status: model.StatusDueSoon, NextDueDate: &near}, settings, now) {
		t.Error("deadline inside lead window should remind")
	}
	if w.shouldRemind(model.Evaluation{Status: model.StatusDueSoon, NextDueDate: &far}, settings, now) {
		t.Error("deadline outside lead window should stay quiet")
	}
	if !w.shouldRemind(model.Evaluation{Status: model.StatusDueSoon}, settings, now) {
		t.Error("mileage-only due_soon should remind")
	}
	if !w.shouldRemind(model.Evaluation{Status: model.StatusOverdue, NextDueDate: &far}, settings, now) {
		t.Error("overdue always reminds")
	}
}
