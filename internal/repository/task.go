package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/autotrack/autotrack/internal/model"
)

// Common errors for maintenance task repository operations.
var (
	ErrTaskNotFound = errors.New("maintenance task not found")
)

const taskColumns = `id, user_id, car_id, task_type, description, notes, cost,
	last_performed_date, last_performed_mileage, interval_miles, interval_months, created_at`

// CreateTask inserts a new maintenance task.
func (r *Repository) CreateTask(ctx context.Context, task *model.MaintenanceTask) error {
	query := `
		INSERT INTO maintenance_tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.CarID,
		task.TaskType,
		task.Description,
		task.Notes,
		task.Cost,
		task.LastPerformedDate,
		task.LastPerformedMileage,
		task.IntervalMiles,
		task.IntervalMonths,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTask retrieves a maintenance task by id, scoped to the owning user.
func (r *Repository) GetTask(ctx context.Context, userID, taskID string) (*model.MaintenanceTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM maintenance_tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListTasks retrieves a user's maintenance tasks, optionally filtered by car.
// Pass an empty carID to list across the whole garage.
func (r *Repository) ListTasks(ctx context.Context, userID, carID string) ([]*model.MaintenanceTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM maintenance_tasks
		WHERE user_id = $1
	`
	args := []any{userID}

	if carID != "" {
		query += ` AND car_id = $2`
		args = append(args, carID)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.MaintenanceTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates a task's mutable fields, scoped to the owning user.
// The service layer merges partial updates before calling this.
func (r *Repository) UpdateTask(ctx context.Context, task *model.MaintenanceTask) error {
	query := `
		UPDATE maintenance_tasks
		SET task_type = $3, description = $4, notes = $5, cost = $6,
		    last_performed_date = $7, last_performed_mileage = $8,
		    interval_miles = $9, interval_months = $10
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.TaskType,
		task.Description,
		task.Notes,
		task.Cost,
		task.LastPerformedDate,
		task.LastPerformedMileage,
		task.IntervalMiles,
		task.IntervalMonths,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTask deletes a maintenance task, scoped to the owning user.
func (r *Repository) DeleteTask(ctx context.Context, userID, taskID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM maintenance_tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// scanTask scans a single row into a MaintenanceTask model.
func scanTask(row pgx.Row) (*model.MaintenanceTask, error) {
	var task model.MaintenanceTask
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.CarID,
		&task.TaskType,
		&task.Description,
		&task.Notes,
		&task.Cost,
		&task.LastPerformedDate,
		&task.LastPerformedMileage,
		&task.IntervalMiles,
		&task.IntervalMonths,
		&task.CreatedAt,
	)
	return &task, err
}
