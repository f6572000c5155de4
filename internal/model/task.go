package model

import "time"

// TaskStatus represents the computed due status of a maintenance task.
type TaskStatus string

const (
	StatusGood    TaskStatus = "good"
	StatusDueSoon TaskStatus = "due_soon"
	StatusOverdue TaskStatus = "overdue"
)

// rank orders statuses for worst-case combination: overdue > due_soon > good.
func (s TaskStatus) rank() int {
	switch s {
	case StatusOverdue:
		return 2
	case StatusDueSoon:
		return 1
	default:
		return 0
	}
}

// Worst returns the more severe of two statuses.
func (s TaskStatus) Worst(other TaskStatus) TaskStatus {
	if other.rank() > s.rank() {
		return other
	}
	return s
}

// Default service intervals applied when a task is created without them.
const (
	DefaultIntervalMiles  int64 = 5000
	DefaultIntervalMonths       = 6
)

// Due-soon windows: the margin before a due threshold within which status
// escalates from good to due_soon.
const (
	DueSoonMileageWindow int64 = 500
	DueSoonDateWindow          = 14 * 24 * time.Hour
)

// monthDuration treats a month as exactly 30 days. This is a documented
// approximation, not calendar-accurate, and is kept for compatibility with
// existing schedules.
const monthDuration = 30 * 24 * time.Hour

// MaintenanceTask is a recurring service item attached to a car.
// LastPerformedDate and LastPerformedMileage are the baselines the due
// computation counts from; a task with neither has no derivable due markers.
type MaintenanceTask struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	CarID                string     `json:"car_id"`
	TaskType             string     `json:"task_type"`
	Description          string     `json:"description,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	Cost                 *float64   `json:"cost,omitempty"`
	LastPerformedDate    *time.Time `json:"last_performed_date,omitempty"`
	LastPerformedMileage *int64     `json:"last_performed_mileage,omitempty"`
	IntervalMiles        int64      `json:"interval_miles"`
	IntervalMonths       int        `json:"interval_months"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Evaluation holds the derived due markers for a task. It is recomputed on
// every read and never stored.
type Evaluation struct {
	Status         TaskStatus
	NextDueMileage *int64
	NextDueDate    *time.Time
}

// Evaluate computes the task's status from its baselines, the owning car's
// current mileage, and the evaluation time. Pure and deterministic: no I/O,
// no clock reads.
//
// The mileage branch and the date branch are independent signals combined by
// worst-case precedence. A car mileage below the last-performed baseline is
// legal (mileage corrections) and simply keeps the mileage signal at good.
func (t *MaintenanceTask) Evaluate(carMileage int64, now time.Time) Evaluation {
	ev := Evaluation{Status: StatusGood}

	if t.LastPerformedMileage != nil {
		due := *t.LastPerformedMileage + t.IntervalMiles
		ev.NextDueMileage = &due
		switch {
		case carMileage >= due:
			ev.Status = StatusOverdue
		case carMileage >= due-DueSoonMileageWindow:
			ev.Status = StatusDueSoon
		}
	}

	if t.LastPerformedDate != nil && !t.LastPerformedDate.IsZero() {
		due := t.LastPerformedDate.Add(time.Duration(t.IntervalMonths) * monthDuration)
		ev.NextDueDate = &due
		switch {
		case !now.Before(due):
			ev.Status = StatusOverdue
		case !now.Before(due.Add(-DueSoonDateWindow)):
			ev.Status = ev.Status.Worst(StatusDueSoon)
		}
	}

	return ev
}

// TaskWithStatus pairs a task with a freshly computed evaluation.
// This is the shape all task reads return to the boundary.
type TaskWithStatus struct {
	MaintenanceTask
	Status         TaskStatus `json:"status"`
	NextDueMileage *int64     `json:"next_due_mileage,omitempty"`
	NextDueDate    *time.Time `json:"next_due_date,omitempty"`
}

// WithStatus annotates the task with its evaluation against the given car
// mileage at the given time.
func (t *MaintenanceTask) WithStatus(carMileage int64, now time.Time) *TaskWithStatus {
	ev := t.Evaluate(carMileage, now)
	return &TaskWithStatus{
		MaintenanceTask: *t,
		Status:          ev.Status,
		NextDueMileage:  ev.NextDueMileage,
		NextDueDate:     ev.NextDueDate,
	}
}
