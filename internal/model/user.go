package model

import "time"

// User represents an account that owns cars, tasks, and mileage logs.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"` // Never serialize
	Settings     UserSettings `json:"settings"`
	CreatedAt    time.Time    `json:"created_at"`
}

// UserSettings holds reminder preferences. The core treats these as opaque
// configuration; only the notification pipeline reads them.
type UserSettings struct {
	EmailReminders     bool   `json:"email_reminders"`
	PushNotifications  bool   `json:"push_notifications"`
	ReminderDaysBefore int    `json:"reminder_days_before"`
	Theme              string `json:"theme"`
}

// DefaultSettings returns the settings assigned to new accounts.
func DefaultSettings() UserSettings {
	return UserSettings{
		EmailReminders:     true,
		PushNotifications:  true,
		ReminderDaysBefore: 7,
		Theme:              "light",
	}
}

// Identity is the authenticated caller injected into request context by the
// auth middleware. Every core operation is parameterized by Identity.UserID.
type Identity struct {
	UserID string
	Email  string
}
