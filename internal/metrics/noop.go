package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCarCreated is a no-op.
func (n *NoopRecorder) IncCarCreated() {}

// IncCarDeleted is a no-op.
func (n *NoopRecorder) IncCarDeleted() {}

// IncMileageLogged is a no-op.
func (n *NoopRecorder) IncMileageLogged() {}

// IncTaskCreated is a no-op.
func (n *NoopRecorder) IncTaskCreated() {}

// IncTaskUpdated is a no-op.
func (n *NoopRecorder) IncTaskUpdated() {}

// IncTaskCompleted is a no-op.
func (n *NoopRecorder) IncTaskCompleted() {}

// IncDashboardCacheHit is a no-op.
func (n *NoopRecorder) IncDashboardCacheHit() {}

// IncDashboardCacheMiss is a no-op.
func (n *NoopRecorder) IncDashboardCacheMiss() {}

// ObserveSummarizeDuration is a no-op.
func (n *NoopRecorder) ObserveSummarizeDuration(duration time.Duration) {}

// IncNotificationCreated is a no-op.
func (n *NoopRecorder) IncNotificationCreated() {}

// IncReminderEmail is a no-op.
func (n *NoopRecorder) IncReminderEmail(status string) {}
