package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/autotrack/autotrack/internal/metrics"
	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/repository"
)

// NotificationService manages in-app notifications.
type NotificationService struct {
	notifications NotificationStore
	metrics       metrics.Recorder
	now           func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications NotificationStore, recorder metrics.Recorder) *NotificationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NotificationService{
		notifications: notifications,
		metrics:       recorder,
		now:           time.Now,
	}
}

// Create records a notification for a user. Called by the reminder worker,
// not exposed over HTTP.
func (s *NotificationService) Create(ctx context.Context, userID, title, message, notifType string) (*model.Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	switch notifType {
	case model.NotificationMaintenanceDue, model.NotificationReminder, model.NotificationInfo:
	default:
		notifType = model.NotificationInfo
	}

	n := &model.Notification{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     title,
		Message:   strings.TrimSpace(message),
		Type:      notifType,
		CreatedAt: s.now().UTC(),
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.metrics.IncNotificationCreated()
	return n, nil
}

// List returns the user's recent notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	out, err := s.notifications.ListNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

// MarkRead marks a notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notifications.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	if err := s.notifications.DeleteNotification(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
