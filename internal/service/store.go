package service

import (
	"context"
	"time"

	"github.com/autotrack/autotrack/internal/model"
)

// Store interfaces abstract the persistence layer so services can be tested
// against in-memory fakes. *repository.Repository satisfies all of them.

// CarStore persists cars and their mileage.
type CarStore interface {
	CreateCar(ctx context.Context, car *model.Car) error
	GetCar(ctx context.Context, userID, carID string) (*model.Car, error)
	ListCars(ctx context.Context, userID string) ([]*model.Car, error)
	UpdateCar(ctx context.Context, car *model.Car) error
	DeleteCarCascade(ctx context.Context, userID, carID string) error
	RaiseCarMileage(ctx context.Context, carID string, mileage int64) error
}

// TaskStore persists maintenance tasks.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.MaintenanceTask) error
	GetTask(ctx context.Context, userID, taskID string) (*model.MaintenanceTask, error)
	ListTasks(ctx context.Context, userID, carID string) ([]*model.MaintenanceTask, error)
	UpdateTask(ctx context.Context, task *model.MaintenanceTask) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// MileageStore persists odometer log entries.
type MileageStore interface {
	CreateMileageLog(ctx context.Context, log *model.MileageLog) error
	ListMileageLogs(ctx context.Context, userID, carID string) ([]*model.MileageLog, error)
}

// UserStore persists user accounts and settings.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserSettings(ctx context.Context, userID string, settings model.UserSettings) error
}

// NotificationStore persists in-app notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	DeleteNotification(ctx context.Context, userID, notificationID string) error
}

// SessionStore holds bearer-token sessions. *cache.Cache satisfies it.
type SessionStore interface {
	CreateSession(ctx context.Context, tokenHash string, id *model.Identity, ttl time.Duration) error
	GetSession(ctx context.Context, tokenHash string) (*model.Identity, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

// StatsCache holds short-lived dashboard summaries. *cache.Cache satisfies
// it; a nil StatsCache disables caching entirely.
type StatsCache interface {
	GetDashboardStats(ctx context.Context, userID string) (*model.DashboardStats, error)
	SetDashboardStats(ctx context.Context, userID string, stats *model.DashboardStats) error
	InvalidateDashboardStats(ctx context.Context, userID string) error
}
