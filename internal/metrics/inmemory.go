package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	CarsCreated              uint64
	CarsDeleted              uint64
	MileageLogged            uint64
	TasksCreated             uint64
	TasksUpdated             uint64
	TasksCompleted           uint64
	DashboardCacheHits       uint64
	DashboardCacheMisses     uint64
	SummarizeDurationCount   uint64
	SummarizeDurationTotalNs int64
	NotificationsCreated     uint64
	ReminderEmailsSent       uint64
	ReminderEmailsFailed     uint64
	ReminderEmailsSkipped    uint64
}

// InMemoryRecorder stores metrics in memory for tests and the internal
// metrics endpoint.
type InMemoryRecorder struct {
	carsCreated              uint64
	carsDeleted              uint64
	mileageLogged            uint64
	tasksCreated             uint64
	tasksUpdated             uint64
	tasksCompleted           uint64
	dashboardCacheHits       uint64
	dashboardCacheMisses     uint64
	summarizeDurationCount   uint64
	summarizeDurationTotalNs int64
	notificationsCreated     uint64
	reminderEmailsSent       uint64
	reminderEmailsFailed     uint64
	reminderEmailsSkipped    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		CarsCreated:              atomic.LoadUint64(&m.carsCreated),
		CarsDeleted:              atomic.LoadUint64(&m.carsDeleted),
		MileageLogged:            atomic.LoadUint64(&m.mileageLogged),
		TasksCreated:             atomic.LoadUint64(&m.tasksCreated),
		TasksUpdated:             atomic.LoadUint64(&m.tasksUpdated),
		TasksCompleted:           atomic.LoadUint64(&m.tasksCompleted),
		DashboardCacheHits:       atomic.LoadUint64(&m.dashboardCacheHits),
		DashboardCacheMisses:     atomic.LoadUint64(&m.dashboardCacheMisses),
		SummarizeDurationCount:   atomic.LoadUint64(&m.summarizeDurationCount),
		SummarizeDurationTotalNs: atomic.LoadInt64(&m.summarizeDurationTotalNs),
		NotificationsCreated:     atomic.LoadUint64(&m.notificationsCreated),
		ReminderEmailsSent:       atomic.LoadUint64(&m.reminderEmailsSent),
		ReminderEmailsFailed:     atomic.LoadUint64(&m.reminderEmailsFailed),
		ReminderEmailsSkipped:    atomic.LoadUint64(&m.reminderEmailsSkipped),
	}
}

// IncCarCreated increments the cars created counter.
func (m *InMemoryRecorder) IncCarCreated() {
	atomic.AddUint64(&m.carsCreated, 1)
}

// IncCarDeleted increments the cars deleted counter.
func (m *InMemoryRecorder) IncCarDeleted() {
	atomic.AddUint64(&m.carsDeleted, 1)
}

// IncMileageLogged increments the mileage log counter.
func (m *InMemoryRecorder) IncMileageLogged() {
	atomic.AddUint64(&m.mileageLogged, 1)
}

// IncTaskCreated increments the tasks created counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskUpdated increments the tasks updated counter.
func (m *InMemoryRecorder) IncTaskUpdated() {
	atomic.AddUint64(&m.tasksUpdated, 1)
}

// IncTaskCompleted increments the tasks completed counter.
func (m *InMemoryRecorder) IncTaskCompleted() {
	atomic.AddUint64(&m.tasksCompleted, 1)
}

// IncDashboardCacheHit increments the dashboard cache hit counter.
func (m *InMemoryRecorder) IncDashboardCacheHit() {
	atomic.AddUint64(&m.dashboardCacheHits, 1)
}

// IncDashboardCacheMiss increments the dashboard cache miss counter.
func (m *InMemoryRecorder) IncDashboardCacheMiss() {
	atomic.AddUint64(&m.dashboardCacheMisses, 1)
}

// ObserveSummarizeDuration records dashboard summarize duration.
func (m *InMemoryRecorder) ObserveSummarizeDuration(duration time.Duration) {
	atomic.AddUint64(&m.summarizeDurationCount, 1)
	atomic.AddInt64(&m.summarizeDurationTotalNs, duration.Nanoseconds())
}

// IncNotificationCreated increments the notifications created counter.
func (m *InMemoryRecorder) IncNotificationCreated() {
	atomic.AddUint64(&m.notificationsCreated, 1)
}

// IncReminderEmail increments the reminder email counter for a status.
func (m *InMemoryRecorder) IncReminderEmail(status string) {
	switch status {
	case "sent":
		atomic.AddUint64(&m.reminderEmailsSent, 1)
	case "failed":
		atomic.AddUint64(&m.reminderEmailsFailed, 1)
	default:
		atomic.AddUint64(&m.reminderEmailsSkipped, 1)
	}
}
