package dto

// CreateCarRequest represents the request body for registering a car.
type CreateCarRequest struct {
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	Color          string `json:"color,omitempty"`
	LicensePlate   string `json:"license_plate,omitempty"`
	VIN            string `json:"vin,omitempty"`
	CurrentMileage int64  `json:"current_mileage,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
}

// UpdateCarRequest represents a partial car update.
type UpdateCarRequest struct {
	Make           *string `json:"make,omitempty"`
	Model          *string `json:"model,omitempty"`
	Year           *int    `json:"year,omitempty"`
	Color          *string `json:"color,omitempty"`
	LicensePlate   *string `json:"license_plate,omitempty"`
	VIN            *string `json:"vin,omitempty"`
	CurrentMileage *int64  `json:"current_mileage,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
}

// LogMileageRequest represents the request body for an odometer reading.
type LogMileageRequest struct {
	Mileage int64     `json:"mileage"`
	Date    *FlexTime `json:"date,omitempty"`
	Notes   string    `json:"notes,omitempty"`
}
