// Package model defines domain entities for the application.
package model

import (
	"fmt"
	"time"
)

// Car represents a vehicle in a user's garage.
// CurrentMileage is monotonically non-decreasing through mileage-reporting
// operations; only a direct car edit may correct it downward.
type Car struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	Color          string    `json:"color,omitempty"`
	LicensePlate   string    `json:"license_plate,omitempty"`
	VIN            string    `json:"vin,omitempty"`
	CurrentMileage int64     `json:"current_mileage"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DisplayName returns a human-readable name like "2019 Toyota Corolla".
// Used in notifications and reminder emails.
func (c *Car) DisplayName() string {
	return fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
}
