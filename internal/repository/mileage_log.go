package repository

import (
	"context"
	"fmt"

	"github.com/autotrack/autotrack/internal/model"
)

// CreateMileageLog appends an odometer reading for a car.
func (r *Repository) CreateMileageLog(ctx context.Context, log *model.MileageLog) error {
	query := `
		INSERT INTO mileage_logs (id, user_id, car_id, mileage, date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.CarID,
		log.Mileage,
		log.Date,
		log.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create mileage log: %w", err)
	}

	return nil
}

// ListMileageLogs retrieves a car's mileage logs, newest reading date first,
// scoped to the owning user.
func (r *Repository) ListMileageLogs(ctx context.Context, userID, carID string) ([]*model.MileageLog, error) {
	query := `
		SELECT id, user_id, car_id, mileage, date, notes
		FROM mileage_logs
		WHERE user_id = $1 AND car_id = $2
		ORDER BY date DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mileage logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.MileageLog
	for rows.Next() {
		var log model.MileageLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.CarID, &log.Mileage, &log.Date, &log.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan mileage log: %w", err)
		}
		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mileage logs: %w", err)
	}

	return logs, nil
}
