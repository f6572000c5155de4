package dto

import "github.com/autotrack/autotrack/internal/model"

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer token issued by register and login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// UpdateSettingsRequest represents a partial settings update.
type UpdateSettingsRequest struct {
	EmailReminders     *bool   `json:"email_reminders,omitempty"`
	PushNotifications  *bool   `json:"push_notifications,omitempty"`
	ReminderDaysBefore *int    `json:"reminder_days_before,omitempty"`
	Theme              *string `json:"theme,omitempty"`
}
