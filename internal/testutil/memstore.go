package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/autotrack/autotrack/internal/cache"
	"github.com/autotrack/autotrack/internal/model"
	"github.com/autotrack/autotrack/internal/repository"
)

// MemStore is an in-memory fake of the persistence layer. It implements the
// service store interfaces and returns the same sentinel errors as the real
// repository, so services under test behave exactly as in production.
type MemStore struct {
	mu            sync.Mutex
	cars          map[string]*model.Car
	tasks         map[string]*model.MaintenanceTask
	logs          map[string]*model.MileageLog
	users         map[string]*model.User
	notifications map[string]*model.Notification
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		cars:          make(map[string]*model.Car),
		tasks:         make(map[string]*model.MaintenanceTask),
		logs:          make(map[string]*model.MileageLog),
		users:         make(map[string]*model.User),
		notifications: make(map[string]*model.Notification),
	}
}

// ----- CarStore -----

func (m *MemStore) CreateCar(_ context.Context, car *model.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *car
	m.cars[car.ID] = &c
	return nil
}

func (m *MemStore) GetCar(_ context.Context, userID, carID string) (*model.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cars[carID]
	if !ok || c.UserID != userID {
		return nil, repository.ErrCarNotFound
	}
	out := *c
	return &out, nil
}

func (m *MemStore) ListCars(_ context.Context, userID string) ([]*model.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Car
	for _, c := range m.cars {
		if c.UserID == userID {
			cc := *c
			out = append(out, &cc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) UpdateCar(_ context.Context, car *model.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cars[car.ID]
	if !ok || existing.UserID != car.UserID {
		return repository.ErrCarNotFound
	}
	c := *car
	m.cars[car.ID] = &c
	return nil
}

func (m *MemStore) DeleteCarCascade(_ context.Context, userID, carID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cars[carID]
	if !ok || c.UserID != userID {
		return repository.ErrCarNotFound
	}
	delete(m.cars, carID)
	for id, t := range m.tasks {
		if t.CarID == carID {
			delete(m.tasks, id)
		}
	}
	for id, l := range m.logs {
		if l.CarID == carID {
			delete(m.logs, id)
		}
	}
	return nil
}

func (m *MemStore) RaiseCarMileage(_ context.Context, carID string, mileage int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cars[carID]; ok && c.CurrentMileage < mileage {
		c.CurrentMileage = mileage
	}
	return nil
}

// ----- TaskStore -----

func (m *MemStore) CreateTask(_ context.Context, task *model.MaintenanceTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := *task
	m.tasks[task.ID] = &t
	return nil
}

func (m *MemStore) GetTask(_ context.Context, userID, taskID string) (*model.MaintenanceTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, repository.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

func (m *MemStore) ListTasks(_ context.Context, userID, carID string) ([]*model.MaintenanceTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MaintenanceTask
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		if carID != "" && t.CarID != carID {
			continue
		}
		tt := *t
		out = append(out, &tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) UpdateTask(_ context.Context, task *model.MaintenanceTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return repository.ErrTaskNotFound
	}
	t := *task
	m.tasks[task.ID] = &t
	return nil
}

func (m *MemStore) DeleteTask(_ context.Context, userID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok || t.UserID != userID {
		return repository.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

// ----- MileageStore -----

func (m *MemStore) CreateMileageLog(_ context.Context, log *model.MileageLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := *log
	m.logs[log.ID] = &l
	return nil
}

func (m *MemStore) ListMileageLogs(_ context.Context, userID, carID string) ([]*model.MileageLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MileageLog
	for _, l := range m.logs {
		if l.UserID == userID && l.CarID == carID {
			ll := *l
			out = append(out, &ll)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ----- UserStore -----

func (m *MemStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *MemStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (m *MemStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *MemStore) ListUsers(_ context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		uu := *u
		out = append(out, &uu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) UpdateUserSettings(_ context.Context, userID string, settings model.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Settings = settings
	return nil
}

// ----- NotificationStore -----

func (m *MemStore) CreateNotification(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	nn := *n
	m.notifications[n.ID] = &nn
	return nil
}

func (m *MemStore) ListNotifications(_ context.Context, userID string) ([]*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			nn := *n
			out = append(out, &nn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) MarkNotificationRead(_ context.Context, userID, notificationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[notificationID]
	if !ok || n.UserID != userID {
		return repository.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (m *MemStore) DeleteNotification(_ context.Context, userID, notificationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[notificationID]
	if !ok || n.UserID != userID {
		return repository.ErrNotificationNotFound
	}
	delete(m.notifications, notificationID)
	return nil
}

func (m *MemStore) HasRecentNotification(_ context.Context, userID, title string, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-window)
	for _, n := range m.notifications {
		if n.UserID == userID && n.Title == title && n.CreatedAt.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

// ----- SessionStore -----

// MemSessions is an in-memory fake of the session cache.
type MemSessions struct {
	mu       sync.Mutex
	sessions map[string]*model.Identity
}

// NewMemSessions creates an empty MemSessions.
func NewMemSessions() *MemSessions {
	return &MemSessions{sessions: make(map[string]*model.Identity)}
}

func (m *MemSessions) CreateSession(_ context.Context, tokenHash string, id *model.Identity, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *id
	m.sessions[tokenHash] = &cp
	return nil
}

func (m *MemSessions) GetSession(_ context.Context, tokenHash string) (*model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.sessions[tokenHash]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	cp := *id
	return &cp, nil
}

func (m *MemSessions) DeleteSession(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

// ----- StatsCache -----

// MemStats is an in-memory fake of the dashboard stats cache.
type MemStats struct {
	mu    sync.Mutex
	stats map[string]*model.DashboardStats

	// Counters exposed for assertions.
	Sets        int
	Invalidates int
}

// NewMemStats creates an empty MemStats.
func NewMemStats() *MemStats {
	return &MemStats{stats: make(map[string]*model.DashboardStats)}
}

func (m *MemStats) GetDashboardStats(_ context.Context, userID string) (*model.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemStats) SetDashboardStats(_ context.Context, userID string, stats *model.DashboardStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *stats
	m.stats[userID] = &cp
	m.Sets++
	return nil
}

func (m *MemStats) InvalidateDashboardStats(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stats, userID)
	m.Invalidates++
	return nil
}
