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

const (
	minCarYear = 1900
	maxCarYear = 2100
)

// CarService manages a user's garage: cars and their mileage history.
type CarService struct {
	cars    CarStore
	mileage MileageStore
	stats   StatsCache
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// NewCarService creates a new CarService.
func NewCarService(cars CarStore, mileage MileageStore, stats StatsCache, logger *slog.Logger, recorder metrics.Recorder) *CarService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CarService{
		cars:    cars,
		mileage: mileage,
		stats:   stats,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// CreateCarInput defines input for registering a car.
type CreateCarInput struct {
	Make           string
	Model          string
	Year           int
	Color          string
	LicensePlate   string
	VIN            string
	CurrentMileage int64
	ImageURL       string
}

// CreateCar registers a new car in the caller's garage.
func (s *CarService) CreateCar(ctx context.Context, userID string, input CreateCarInput) (*model.Car, error) {
	input.Make = strings.TrimSpace(input.Make)
	input.Model = strings.TrimSpace(input.Model)
	if input.Make == "" || input.Model == "" {
		return nil, fmt.Errorf("%w: make and model are required", ErrInvalidInput)
	}
	if input.Year < minCarYear || input.Year > maxCarYear {
		return nil, fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, minCarYear, maxCarYear)
	}
	if input.CurrentMileage < 0 {
		return nil, fmt.Errorf("%w: current_mileage must not be negative", ErrInvalidInput)
	}

	car := &model.Car{
		ID:             ulid.Make().String(),
		UserID:         userID,
		Make:           input.Make,
		Model:          input.Model,
		Year:           input.Year,
		Color:          strings.TrimSpace(input.Color),
		LicensePlate:   strings.TrimSpace(input.LicensePlate),
		VIN:            strings.TrimSpace(input.VIN),
		CurrentMileage: input.CurrentMileage,
		ImageURL:       strings.TrimSpace(input.ImageURL),
		CreatedAt:      s.now().UTC(),
	}

	if err := s.cars.CreateCar(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	s.metrics.IncCarCreated()
	s.invalidateStats(ctx, userID)
	return car, nil
}

// GetCar returns a car by ID, scoped to the caller.
func (s *CarService) GetCar(ctx context.Context, userID, carID string) (*model.Car, error) {
	car, err := s.cars.GetCar(ctx, userID, carID)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return car, nil
}

// ListCars returns all of the caller's cars, newest first.
func (s *CarService) ListCars(ctx context.Context, userID string) ([]*model.Car, error) {
	cars, err := s.cars.ListCars(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return cars, nil
}

// UpdateCarInput defines input for updating a car. Nil fields are unchanged.
type UpdateCarInput struct {
	Make           *string
	Model          *string
	Year           *int
	Color          *string
	LicensePlate   *string
	VIN            *string
	CurrentMileage *int64
	ImageURL       *string
}

func (in UpdateCarInput) empty() bool {
	return in.Make == nil && in.Model == nil && in.Year == nil && in.Color == nil &&
		in.LicensePlate == nil && in.VIN == nil && in.CurrentMileage == nil && in.ImageURL == nil
}

// UpdateCar applies a partial update to a car. Unlike mileage logging, a
// direct edit may set current_mileage to any non-negative value, including a
// lower one (odometer corrections).
func (s *CarService) UpdateCar(ctx context.Context, userID, carID string, input UpdateCarInput) (*model.Car, error) {
	if input.empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	car, err := s.GetCar(ctx, userID, carID)
	if err != nil {
		return nil, err
	}

	if input.Make != nil {
		v := strings.TrimSpace(*input.Make)
		if v == "" {
			return nil, fmt.Errorf("%w: make must not be empty", ErrInvalidInput)
		}
		car.Make = v
	}
	if input.Model != nil {
		v := strings.TrimSpace(*input.Model)
		if v == "" {
			return nil, fmt.Errorf("%w: model must not be empty", ErrInvalidInput)
		}
		car.Model = v
	}
	if input.Year != nil {
		if *input.Year < minCarYear || *input.Year > maxCarYear {
			return nil, fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, minCarYear, maxCarYear)
		}
		car.Year = *input.Year
	}
	if input.Color != nil {
		car.Color = strings.TrimSpace(*input.Color)
	}
	if input.LicensePlate != nil {
		car.LicensePlate = strings.TrimSpace(*input.LicensePlate)
	}
	if input.VIN != nil {
		car.VIN = strings.TrimSpace(*input.VIN)
	}
	if input.CurrentMileage != nil {
		if *input.CurrentMileage < 0 {
			return nil, fmt.Errorf("%w: current_mileage must not be negative", ErrInvalidInput)
		}
		car.CurrentMileage = *input.CurrentMileage
	}
	if input.ImageURL != nil {
		car.ImageURL = strings.TrimSpace(*input.ImageURL)
	}

	if err := s.cars.UpdateCar(ctx, car); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update car: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return car, nil
}

// DeleteCar removes a car together with its maintenance tasks and mileage
// logs in a single transaction.
func (s *CarService) DeleteCar(ctx context.Context, userID, carID string) error {
	if err := s.cars.DeleteCarCascade(ctx, userID, carID); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete car: %w", err)
	}

	s.metrics.IncCarDeleted()
	s.invalidateStats(ctx, userID)
	return nil
}

// LogMileageInput defines input for recording an odometer reading.
type LogMileageInput struct {
	Mileage int64
	Date    *time.Time
	Notes   string
}

// LogMileage appends an odometer reading for a car. The log entry is stored
// as reported; the car's current mileage only moves forward.
func (s *CarService) LogMileage(ctx context.Context, userID, carID string, input LogMileageInput) (*model.MileageLog, error) {
	if input.Mileage < 0 {
		return nil, fmt.Errorf("%w: mileage must not be negative", ErrInvalidInput)
	}

	// Ownership check; also surfaces unknown cars as not found.
	if _, err := s.GetCar(ctx, userID, carID); err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if input.Date != nil && !input.Date.IsZero() {
		date = input.Date.UTC()
	}

	log := &model.MileageLog{
		ID:      ulid.Make().String(),
		UserID:  userID,
		CarID:   carID,
		Mileage: input.Mileage,
		Date:    date,
		Notes:   strings.TrimSpace(input.Notes),
	}

	if err := s.mileage.CreateMileageLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create mileage log: %w", err)
	}

	if err := s.cars.RaiseCarMileage(ctx, carID, input.Mileage); err != nil {
		return nil, fmt.Errorf("failed to raise car mileage: %w", err)
	}

	s.metrics.IncMileageLogged()
	s.invalidateStats(ctx, userID)
	return log, nil
}

// ListMileage returns a car's mileage history, newest reading first.
func (s *CarService) ListMileage(ctx context.Context, userID, carID string) ([]*model.MileageLog, error) {
	if _, err := s.GetCar(ctx, userID, carID); err != nil {
		return nil, err
	}
	logs, err := s.mileage.ListMileageLogs(ctx, userID, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mileage logs: %w", err)
	}
	return logs, nil
}

func (s *CarService) invalidateStats(ctx context.Context, userID string) {
	if s.stats == nil {
		return
	}
	if err := s.stats.InvalidateDashboardStats(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate dashboard stats", "user_id", userID, "error", err)
	}
}
