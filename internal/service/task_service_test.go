package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/testutil"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTaskFixture(t *testing.T, now time.Time) (*TaskService, *testutil.MemStore, *testutil.MemStats) {
	t.Helper()
	store := testutil.NewMemStore()
	stats := testutil.NewMemStats()
	svc := NewTaskService(store, store, stats, nil, nil)
	svc.now = fixedClock(now)
	return svc, store, stats
}

func seedCar(t *testing.T, store *testutil.MemStore, userID string, mileage int64) *model.Car {
	t.Helper()
	car := testutil.NewTestCar(t, userID)
	car.CurrentMileage = mileage
	if err := store.CreateCar(context.Background(), car); err != nil {
		t.Fatalf("seed car: %v", err)
	}
	return car
}

func TestTaskService_CreateTask_Defaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _ := newTaskFixture(t, now)
	car := seedCar(t, store, "u1", 45000)

	got, err := svc.CreateTask(context.Background(), "u1", CreateTaskInput{
		CarID:    car.ID,
		TaskType: "oil_change",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if got.IntervalMiles != model.DefaultIntervalMiles {
		t.Errorf("IntervalMiles = %d, want %d", got.IntervalMiles, model.DefaultIntervalMiles)
	}
	if got.IntervalMonths != model.DefaultIntervalMonths {
		t.Errorf("IntervalMonths = %d, want %d", got.IntervalMonths, model.DefaultIntervalMonths)
	}
	// No baselines: no due markers, status good.
	if got.Status != model.StatusGood {
		t.Errorf("Status = %q, want good", got.Status)
	}
	if got.NextDueMileage != nil || got.NextDueDate != nil {
		t.Error("expected no due markers without baselines")
	}
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _ := newTaskFixture(t, now)
	car := seedCar(t, store, "u1", 45000)

	zero := int64(0)
	negCost := -1.0
	tests := []struct {
		name  string
		input CreateTaskInput
	}{
		{"missing task type", CreateTaskInput{CarID: car.ID}},
		{"zero interval miles", CreateTaskInput{CarID: car.ID, TaskType: "brakes", IntervalMiles: &zero}},
		{"negative cost", CreateTaskInput{CarID: car.ID, TaskType: "brakes", Cost: &negCost}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateTask(context.Background(), "u1", tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestTaskService_CreateTask_UnownedCar(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _ := newTaskFixture(t, now)
	car := seedCar(t, store, "owner", 45000)

	_, err := svc.CreateTask(context.Background(), "intruder", CreateTaskInput{
		CarID:    car.ID,
		TaskType: "oil_change",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskService_GetTask_StatusAgainstCarMileage(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _ := newTaskFixture(t, now)
	car := seedCar(t, store, "u1", 50000)

	baseline := int64(45000)
	created, err := svc.CreateTask(context.Background(), "u1", CreateTaskInput{
		CarID:                car.ID,
		TaskType:             "oil_change",
		LastPerformedMileage: &baseline,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := svc.GetTask(context.Background(), "u1", created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Status != model.StatusOverdue {
		t.Errorf("Status = %q, want overdue", got.Status)
	}
	if got.NextDueMileage == nil || *got.NextDueMileage != 50000 {
		t.Errorf("NextDueMileage = %v, want 50000", got.NextDueMileage)
	}
}

func TestTaskService_ListTasks_OrphanEvaluatesAgainstZero(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _ := newTaskFixture(t, now)

	// Task whose car does not exist: mileage signal counts from odometer 0.
	baseline := int64(45000)
	task := testutil.NewTestTask(t, "u1", "gone-car")
	task.LastPerformedDate = nil
	task.LastPerformedMileage = &baseline
	if err := store.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	got, err := svc.ListTasks(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Status != model.StatusGood {
		t.Errorf("Status = %q, want good (odometer 0 below due threshold)", got[0].Status)
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _ := newTaskFixture(t, now)
	car := seedCar(t, store, "u1", 45000)

	created, err := svc.CreateTask(context.Background(), "u1", CreateTaskInput{
		CarID:    car.ID,
		TaskType: "oil_change",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	t.Run("empty payload rejected", func(t *testing.T) {
		_, err := svc.UpdateTask(context.Background(), "u1", created.ID, UpdateTaskInput{})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		notes := "used synthetic"
		got, err := svc.UpdateTask(context.Background(), "u1", created.ID, UpdateTaskInput{Notes: &notes})
		if err != nil {
			t.Fatalf("UpdateTask: %v", err)
		}
		if got.Notes != notes {
			t.Errorf("Notes = %q, want %q", got.Notes, notes)
		}
		if got.TaskType != "oil_change" {
			t.Errorf("TaskType changed to %q", got.TaskType)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		notes := "x"
		_, err := svc.UpdateTask(context.Background(), "u1", "missing", UpdateTaskInput{Notes: &notes})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestTaskService_CompleteTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, stats := newTaskFixture(t, now)
	car := seedCar(t, store, "u1", 45000)

	baseline := int64(40000)
	past := now.AddDate(0, -8, 0)
	created, err := svc.CreateTask(context.Background(), "u1", CreateTaskInput{
		CarID:                car.ID,
		TaskType:             "oil_change",
		LastPerformedDate:    &past,
		LastPerformedMileage: &baseline,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.Status != model.StatusOverdue {
		t.Fatalf("precondition: Status = %q, want overdue", created.Status)
	}

	got, err := svc.CompleteTask(context.Background(), "u1", created.ID, 46000)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	if got.LastPerformedMileage == nil || *got.LastPerformedMileage != 46000 {
		t.Errorf("LastPerformedMileage = %v, want 46000", got.LastPerformedMileage)
	}
	if got.LastPerformedDate == nil || !got.LastPerformedDate.Equal(now) {
		t.Errorf("LastPerformedDate = %v, want %v", got.LastPerformedDate, now)
	}
	if got.Status != model.StatusGood {
		t.Errorf("Status = %q, want good after completion", got.Status)
	}

	// Odometer moved forward with the completion reading.
	updated, err := store.GetCar(context.Background(), "u1", car.ID)
	if err != nil {
		t.Fatalf("GetCar: %v", err)
	}
	if updated.CurrentMileage != 46000 {
		t.Errorf("CurrentMileage = %d, want 46000", updated.CurrentMileage)
	}
	if stats.Invalidates == 0 {
		t.Error("expected dashboard cache invalidation")
	}
}

func TestTaskService_CompleteTask_LowerReadingKeepsOdometer(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _ := newTaskFixture(t, now)
	car := seedCar(t, store, "u1", 45000)

	created, err := svc.CreateTask(context.Background(), "u1", CreateTaskInput{
		CarID:    car.ID,
		TaskType: "inspection",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := svc.CompleteTask(context.Background(), "u1", created.ID, 44000)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	// Baseline records the reading as reported.
	if got.LastPerformedMileage == nil || *got.LastPerformedMileage != 44000 {
		t.Errorf("LastPerformedMileage = %v, want 44000", got.LastPerformedMileage)
	}
	// Odometer never moves backward.
	updated, err := store.GetCar(context.Background(), "u1", car.ID)
	if err != nil {
		t.Fatalf("GetCar: %v", err)
	}
	if updated.CurrentMileage != 45000 {
		t.Errorf("CurrentMileage = %d, want 45000", updated.CurrentMileage)
	}
}

// failingOdometerStore wraps MemStore with a RaiseCarMileage that always
// fails, simulating a storage error on the odometer side effect.
type failingOdometerStore struct {
	*testutil.MemStore
	raiseErr error
}

func (f *failingOdometerStore) RaiseCarMileage(_ context.Context, _ string, _ int64) error {
	return f.raiseErr
}

func TestTaskService_CompleteTask_OdometerWriteFails(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := testutil.NewMemStore()
	failing := &failingOdometerStore{MemStore: store, raiseErr: errors.New("connection reset")}
	svc := NewTaskService(store, failing, testutil.NewMemStats(), nil, nil)
	svc.now = fixedClock(now)
	car := seedCar(t, store, "u1", 50000)

	created, err := svc.CreateTask(context.Background(), "u1", CreateTaskInput{
		CarID:    car.ID,
		TaskType: "oil_change",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	_, err = svc.CompleteTask(context.Background(), "u1", created.ID, 55000)
	if err == nil {
		t.Fatal("expected error when the odometer write fails")
	}
	if !errors.Is(err, failing.raiseErr) {
		t.Errorf("error = %v, want wrapped %v", err, failing.raiseErr)
	}
}

func TestTaskService_DeleteTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, store, _ := newTaskFixture(t, now)
	car := seedCar(t, store, "u1", 45000)

	created, err := svc.CreateTask(context.Background(), "u1", CreateTaskInput{
		CarID:    car.ID,
		TaskType: "oil_change",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := svc.DeleteTask(context.Background(), "u1", created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := svc.DeleteTask(context.Background(), "u1", created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
