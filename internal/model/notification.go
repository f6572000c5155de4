package model

import "time"

// NotificationType categorizes in-app notifications.
const (
	NotificationMaintenanceDue = "maintenance_due"
	NotificationReminder       = "reminder"
	NotificationInfo           = "info"
)

// Notification is an in-app message created for a user, typically by the
// reminder worker when a task becomes due.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
