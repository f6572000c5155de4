package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autotrack/autotrack/internal/testutil"
)

func newCarFixture(t *testing.T, now time.Time) (*CarService, *TaskService) {
	t.Helper()
	store := testutil.NewMemStore()
	stats := testutil.NewMemStats()
	cars := NewCarService(store, store, stats, nil, nil)
	cars.now = fixedClock(now)
	tasks := NewTaskService(store, store, stats, nil, nil)
	tasks.now = fixedClock(now)
	return cars, tasks
}

func TestCarService_CreateCar(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cars, _ := newCarFixture(t, now)

	got, err := cars.CreateCar(context.Background(), "u1", CreateCarInput{
		Make:           "  Toyota ",
		Model:          "Corolla",
		Year:           2019,
		CurrentMileage: 45000,
	})
	if err != nil {
		t.Fatalf("CreateCar: %v", err)
	}
	if got.ID == "" {
		t.Error("expected generated ID")
	}
	if got.Make != "Toyota" {
		t.Errorf("Make = %q, want trimmed", got.Make)
	}
	if got.DisplayName() != "2019 Toyota Corolla" {
		t.Errorf("DisplayName = %q", got.DisplayName())
	}
}

func TestCarService_CreateCar_Validation(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cars, _ := newCarFixture(t, now)

	tests := []struct {
		name  string
		input CreateCarInput
	}{
		{"missing make", CreateCarInput{Model: "Corolla", Year: 2019}},
		{"missing model", CreateCarInput{Make: "Toyota", Year: 2019}},
		{"year too small", CreateCarInput{Make: "Toyota", Model: "Corolla", Year: 1850}},
		{"negative mileage", CreateCarInput{Make: "Toyota", Model: "Corolla", Year: 2019, CurrentMileage: -1}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cars.CreateCar(context.Background(), "u1", tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCarService_UpdateCar(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cars, _ := newCarFixture(t, now)

	car, err := cars.CreateCar(context.Background(), "u1", CreateCarInput{
		Make: "Toyota", Model: "Corolla", Year: 2019, CurrentMileage: 45000,
	})
	if err != nil {
		t.Fatalf("CreateCar: %v", err)
	}

	t.Run("empty payload rejected", func(t *testing.T) {
		_, err := cars.UpdateCar(context.Background(), "u1", car.ID, UpdateCarInput{})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("direct edit may lower mileage", func(t *testing.T) {
		lower := int64(40000)
		got, err := cars.UpdateCar(context.Background(), "u1", car.ID, UpdateCarInput{CurrentMileage: &lower})
		if err != nil {
			t.Fatalf("UpdateCar: %v", err)
		}
		if got.CurrentMileage != 40000 {
			t.Errorf("CurrentMileage = %d, want 40000", got.CurrentMileage)
		}
	})

	t.Run("other user cannot touch it", func(t *testing.T) {
		color := "red"
		_, err := cars.UpdateCar(context.Background(), "u2", car.ID, UpdateCarInput{Color: &color})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestCarService_DeleteCar_Cascades(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cars, tasks := newCarFixture(t, now)

	car, err := cars.CreateCar(context.Background(), "u1", CreateCarInput{
		Make: "Toyota", Model: "Corolla", Year: 2019, CurrentMileage: 45000,
	})
	if err != nil {
		t.Fatalf("CreateCar: %v", err)
	}
	task, err := tasks.CreateTask(context.Background(), "u1", CreateTaskInput{
		CarID: car.ID, TaskType: "oil_change",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := cars.LogMileage(context.Background(), "u1", car.ID, LogMileageInput{Mileage: 45100}); err != nil {
		t.Fatalf("LogMileage: %v", err)
	}

	if err := cars.DeleteCar(context.Background(), "u1", car.ID); err != nil {
		t.Fatalf("DeleteCar: %v", err)
	}

	if _, err := cars.GetCar(context.Background(), "u1", car.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("car still present: %v", err)
	}
	if _, err := tasks.GetTask(context.Background(), "u1", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("task survived cascade: %v", err)
	}
	if err := cars.DeleteCar(context.Background(), "u1", car.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestCarService_LogMileage(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cars, _ := newCarFixture(t, now)

	car, err := cars.CreateCar(context.Background(), "u1", CreateCarInput{
		Make: "Toyota", Model: "Corolla", Year: 2019, CurrentMileage: 45000,
	})
	if err != nil {
		t.Fatalf("CreateCar: %v", err)
	}

	t.Run("forward reading raises odometer", func(t *testing.T) {
		if _, err := cars.LogMileage(context.Background(), "u1", car.ID, LogMileageInput{Mileage: 46000}); err != nil {
			t.Fatalf("LogMileage: %v", err)
		}
		got, err := cars.GetCar(context.Background(), "u1", car.ID)
		if err != nil {
			t.Fatalf("GetCar: %v", err)
		}
		if got.CurrentMileage != 46000 {
			t.Errorf("CurrentMileage = %d, want 46000", got.CurrentMileage)
		}
	})

	t.Run("lower reading is stored but odometer holds", func(t *testing.T) {
		log, err := cars.LogMileage(context.Background(), "u1", car.ID, LogMileageInput{Mileage: 100, Notes: "typo correction"})
		if err != nil {
			t.Fatalf("LogMileage: %v", err)
		}
		if log.Mileage != 100 {
			t.Errorf("log Mileage = %d, want 100 as reported", log.Mileage)
		}
		got, err := cars.GetCar(context.Background(), "u1", car.ID)
		if err != nil {
			t.Fatalf("GetCar: %v", err)
		}
		if got.CurrentMileage != 46000 {
			t.Errorf("CurrentMileage = %d, want 46000", got.CurrentMileage)
		}
	})

	t.Run("negative reading rejected", func(t *testing.T) {
		_, err := cars.LogMileage(context.Background(), "u1", car.ID, LogMileageInput{Mileage: -5})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("unknown car", func(t *testing.T) {
		_, err := cars.LogMileage(context.Background(), "u1", "missing", LogMileageInput{Mileage: 1})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("history is newest first", func(t *testing.T) {
		logs, err := cars.ListMileage(context.Background(), "u1", car.ID)
		if err != nil {
			t.Fatalf("ListMileage: %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("len = %d, want 2", len(logs))
		}
	})
}

func TestCarService_LogMileage_OdometerWriteFails(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := testutil.NewMemStore()
	failing := &failingOdometerStore{MemStore: store, raiseErr: errors.New("connection reset")}
	cars := NewCarService(failing, store, testutil.NewMemStats(), nil, nil)
	cars.now = fixedClock(now)

	car := seedCar(t, store, "u1", 45000)

	_, err := cars.LogMileage(context.Background(), "u1", car.ID, LogMileageInput{Mileage: 46000})
	if err == nil {
		t.Fatal("expected error when the odometer write fails")
	}
	if !errors.Is(err, failing.raiseErr) {
		t.Errorf("error = %v, want wrapped %v", err, failing.raiseErr)
	}
}
