// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Garage metrics
	IncCarCreated()
	IncCarDeleted()
	IncMileageLogged()

	// Maintenance metrics
	IncTaskCreated()
	IncTaskUpdated()
	IncTaskCompleted()

	// Dashboard metrics
	IncDashboardCacheHit()
	IncDashboardCacheMiss()
	ObserveSummarizeDuration(duration time.Duration)

	// Reminder pipeline metrics
	IncNotificationCreated()
	IncReminderEmail(status string) // status: "sent", "failed", "skipped"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
