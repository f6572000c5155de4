package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autotrack/autotrack/internal/model"
)

// Common errors for notification repository operations.
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// maxNotifications caps the list size per user, newest first.
const maxNotifications = 50

// CreateNotification inserts an in-app notification.
func (r *Repository) CreateNotification(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Type,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListNotifications retrieves a user's notifications, newest first.
func (r *Repository) ListNotifications(ctx context.Context, userID string) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, maxNotifications)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead flags a notification as read, scoped to the owning user.
func (r *Repository) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// DeleteNotification deletes a notification, scoped to the owning user.
func (r *Repository) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// HasRecentNotification reports whether a notification with the same title
// was created for the user inside the window. The reminder worker uses this
// to avoid re-notifying the same due task every poll.
func (r *Repository) HasRecentNotification(ctx context.Context, userID, title string, window time.Duration) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND title = $2 AND created_at > $3
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, title, time.Now().Add(-window)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recent notifications: %w", err)
	}

	return exists, nil
}
