package model

import "time"

// MileageLog is an odometer reading reported for a car. Logs are append-only:
// a correction entry with a lower reading is stored as-is, and only the car's
// current_mileage field enforces the never-decreases rule.
type MileageLog struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	CarID  string    `json:"car_id"`
	Mileage int64    `json:"mileage"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes,omitempty"`
}
