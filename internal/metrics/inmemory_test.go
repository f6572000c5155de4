package metrics

import (
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()

	m.IncCarCreated()
	m.IncCarCreated()
	m.IncTaskCompleted()
	m.IncReminderEmail("sent")
	m.IncReminderEmail("failed")
	m.IncReminderEmail("skipped")
	m.ObserveSummarizeDuration(5 * time.Millisecond)

	snap := m.Snapshot()

	if snap.CarsCreated != 2 {
		t.Errorf("CarsCreated = %d, want 2", snap.CarsCreated)
	}
	if snap.TasksCompleted != 1 {
		t.Errorf("TasksCompleted = %d, want 1", snap.TasksCompleted)
	}
	if snap.ReminderEmailsSent != 1 || snap.ReminderEmailsFailed != 1 || snap.ReminderEmailsSkipped != 1 {
		t.Errorf("reminder email counters = %d/%d/%d, want 1/1/1",
			snap.ReminderEmailsSent, snap.ReminderEmailsFailed, snap.ReminderEmailsSkipped)
	}
	if snap.SummarizeDurationCount != 1 {
		t.Errorf("SummarizeDurationCount = %d, want 1", snap.SummarizeDurationCount)
	}
	if snap.SummarizeDurationTotalNs != (5 * time.Millisecond).Nanoseconds() {
		t.Errorf("SummarizeDurationTotalNs = %d", snap.SummarizeDurationTotalNs)
	}
}
