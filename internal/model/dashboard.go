package model

// DashboardStats summarizes a user's garage. Counts always satisfy
// TotalTasks == Overdue + DueSoon + Good.
type DashboardStats struct {
	TotalCars  int `json:"total_cars"`
	TotalTasks int `json:"total_tasks"`
	Overdue    int `json:"overdue"`
	DueSoon    int `json:"due_soon"`
	Good       int `json:"good"`
}
