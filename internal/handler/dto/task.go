package dto

// CreateTaskRequest represents the request body for creating a maintenance
// task. Omitted intervals fall back to service defaults.
type CreateTaskRequest struct {
	CarID                string    `json:"car_id"`
	TaskType             string    `json:"task_type"`
	Description          string    `json:"description,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	Cost                 *float64  `json:"cost,omitempty"`
	LastPerformedDate    *FlexTime `json:"last_performed_date,omitempty"`
	LastPerformedMileage *int64    `json:"last_performed_mileage,omitempty"`
	IntervalMiles        *int64    `json:"interval_miles,omitempty"`
	IntervalMonths       *int      `json:"interval_months,omitempty"`
}

// UpdateTaskRequest represents a partial task update.
type UpdateTaskRequest struct {
	TaskType             *string   `json:"task_type,omitempty"`
	Description          *string   `json:"description,omitempty"`
	Notes                *string   `json:"notes,omitempty"`
	Cost                 *float64  `json:"cost,omitempty"`
	LastPerformedDate    *FlexTime `json:"last_performed_date,omitempty"`
	LastPerformedMileage *int64    `json:"last_performed_mileage,omitempty"`
	IntervalMiles        *int64    `json:"interval_miles,omitempty"`
	IntervalMonths       *int      `json:"interval_months,omitempty"`
}

// ChatRequest represents the request body for the maintenance assistant.
type ChatRequest struct {
	Message string `json:"message"`
	CarID   string `json:"car_id,omitempty"`
}

// ChatResponse carries the assistant's reply and optional canned follow-up
// questions.
type ChatResponse struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions,omitempty"`
}
