package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autotrack/autotrack/internal/auth"
	"github.com/autotrack/autotrack/internal/handler/dto"
	"github.com/autotrack/autotrack/internal/service"
)

// TaskHandler handles HTTP requests for maintenance tasks.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/maintenance.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.svc.CreateTask(r.Context(), userID, service.CreateTaskInput{
		CarID:                req.CarID,
		TaskType:             req.TaskType,
		Description:          req.Description,
		Notes:                req.Notes,
		Cost:                 req.Cost,
		LastPerformedDate:    req.LastPerformedDate.Time(),
		LastPerformedMileage: req.LastPerformedMileage,
		IntervalMiles:        req.IntervalMiles,
		IntervalMonths:       req.IntervalMonths,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("task_created", "task_id", task.ID, "car_id", task.CarID, "user_id", userID)
	writeJSON(w, http.StatusCreated, task)
}

// Get handles GET /api/v1/maintenance/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	task, err := h.svc.GetTask(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// List handles GET /api/v1/maintenance. An optional car_id query parameter
// narrows the list to one car.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	tasks, err := h.svc.ListTasks(r.Context(), userID, r.URL.Query().Get("car_id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Update handles PATCH /api/v1/maintenance/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateTaskInput{
		TaskType:             req.TaskType,
		Description:          req.Description,
		Notes:                req.Notes,
		Cost:                 req.Cost,
		LastPerformedMileage: req.LastPerformedMileage,
		IntervalMiles:        req.IntervalMiles,
		IntervalMonths:       req.IntervalMonths,
	}
	if req.LastPerformedDate != nil {
		input.LastPerformedDate = req.LastPerformedDate.Time()
	}

	task, err := h.svc.UpdateTask(r.Context(), userID, chi.URLParam(r, "id"), input)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/v1/maintenance/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID
	taskID := chi.URLParam(r, "id")

	if err := h.svc.DeleteTask(r.Context(), userID, taskID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("task_deleted", "task_id", taskID, "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /api/v1/maintenance/{id}/complete. The odometer
// reading arrives as a mileage query parameter.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID
	taskID := chi.URLParam(r, "id")

	raw := r.URL.Query().Get("mileage")
	mileage, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_MILEAGE", "mileage query parameter must be an integer")
		return
	}

	task, err := h.svc.CompleteTask(r.Context(), userID, taskID, mileage)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("task_completed", "task_id", taskID, "mileage", mileage, "user_id", userID)
	writeJSON(w, http.StatusOK, task)
}
