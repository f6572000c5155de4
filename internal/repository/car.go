package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/autotrack/autotrack/internal/model"
)

// Common errors for car repository operations.
var (
	ErrCarNotFound = errors.New("car not found")
)

// CreateCar inserts a new car.
func (r *Repository) CreateCar(ctx context.Context, car *model.Car) error {
	query := `
		INSERT INTO cars (id, user_id, make, model, year, color, license_plate, vin, current_mileage, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		car.ID,
		car.UserID,
		car.Make,
		car.Model,
		car.Year,
		car.Color,
		car.LicensePlate,
		car.VIN,
		car.CurrentMileage,
		car.ImageURL,
		car.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	return nil
}

// GetCar retrieves a car by id, scoped to the owning user.
// A car owned by another user is indistinguishable from a missing one.
func (r *Repository) GetCar(ctx context.Context, userID, carID string) (*model.Car, error) {
	query := `
		SELECT id, user_id, make, model, year, color, license_plate, vin, current_mileage, image_url, created_at
		FROM cars
		WHERE id = $1 AND user_id = $2
	`

	car, err := scanCar(r.pool.QueryRow(ctx, query, carID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	return car, nil
}

// ListCars retrieves all cars owned by a user, newest first.
func (r *Repository) ListCars(ctx context.Context, userID string) ([]*model.Car, error) {
	query := `
		SELECT id, user_id, make, model, year, color, license_plate, vin, current_mileage, image_url, created_at
		FROM cars
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	var cars []*model.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, car)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cars: %w", err)
	}

	return cars, nil
}

// UpdateCar updates a car's mutable fields, scoped to the owning user.
func (r *Repository) UpdateCar(ctx context.Context, car *model.Car) error {
	query := `
		UPDATE cars
		SET make = $3, model = $4, year = $5, color = $6, license_plate = $7, vin = $8, current_mileage = $9, image_url = $10
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		car.ID,
		car.UserID,
		car.Make,
		car.Model,
		car.Year,
		car.Color,
		car.LicensePlate,
		car.VIN,
		car.CurrentMileage,
		car.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCarNotFound
	}

	return nil
}

// DeleteCarCascade deletes a car and all maintenance tasks and mileage logs
// referencing it, in a single transaction. Either everything is removed or
// nothing is.
func (r *Repository) DeleteCarCascade(ctx context.Context, userID, carID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cascade delete: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	result, err := tx.Exec(ctx, `DELETE FROM cars WHERE id = $1 AND user_id = $2`, carID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCarNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM maintenance_tasks WHERE car_id = $1`, carID); err != nil {
		return fmt.Errorf("failed to delete car tasks: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM mileage_logs WHERE car_id = $1`, carID); err != nil {
		return fmt.Errorf("failed to delete car mileage logs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cascade delete: %w", err)
	}

	return nil
}

// RaiseCarMileage raises the car's current mileage to the given reading if
// and only if the reading is higher. The conditional update keeps the
// monotonic-max invariant under concurrent writers.
func (r *Repository) RaiseCarMileage(ctx context.Context, carID string, mileage int64) error {
	query := `
		UPDATE cars
		SET current_mileage = $2
		WHERE id = $1 AND current_mileage < $2
	`

	if _, err := r.pool.Exec(ctx, query, carID, mileage); err != nil {
		return fmt.Errorf("failed to raise car mileage: %w", err)
	}

	return nil
}

// scanCar scans a single row into a Car model.
func scanCar(row pgx.Row) (*model.Car, error) {
	var car model.Car
	err := row.Scan(
		&car.ID,
		&car.UserID,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.Color,
		&car.LicensePlate,
		&car.VIN,
		&car.CurrentMileage,
		&car.ImageURL,
		&car.CreatedAt,
	)
	return &car, err
}
