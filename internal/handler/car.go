package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/autotrack/autotrack/internal/auth"
	"github.com/autotrack/autotrack/internal/handler/dto"
	"github.com/autotrack/autotrack/internal/service"
)

// CarHandler handles HTTP requests for garage operations.
type CarHandler struct {
	svc    *service.CarService
	logger *slog.Logger
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(svc *service.CarService, logger *slog.Logger) *CarHandler {
	return &CarHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/cars.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	var req dto.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	car, err := h.svc.CreateCar(r.Context(), userID, service.CreateCarInput{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Color:          req.Color,
		LicensePlate:   req.LicensePlate,
		VIN:            req.VIN,
		CurrentMileage: req.CurrentMileage,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("car_created", "car_id", car.ID, "user_id", userID)
	writeJSON(w, http.StatusCreated, car)
}

// Get handles GET /api/v1/cars/{id}.
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	car, err := h.svc.GetCar(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// List handles GET /api/v1/cars.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	cars, err := h.svc.ListCars(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

// Update handles PATCH /api/v1/cars/{id}.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	var req dto.UpdateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	car, err := h.svc.UpdateCar(r.Context(), userID, chi.URLParam(r, "id"), service.UpdateCarInput{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Color:          req.Color,
		LicensePlate:   req.LicensePlate,
		VIN:            req.VIN,
		CurrentMileage: req.CurrentMileage,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// Delete handles DELETE /api/v1/cars/{id}.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID
	carID := chi.URLParam(r, "id")

	if err := h.svc.DeleteCar(r.Context(), userID, carID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("car_deleted", "car_id", carID, "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// LogMileage handles POST /api/v1/cars/{id}/mileage.
func (h *CarHandler) LogMileage(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	var req dto.LogMileageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	log, err := h.svc.LogMileage(r.Context(), userID, chi.URLParam(r, "id"), service.LogMileageInput{
		Mileage: req.Mileage,
		Date:    req.Date.Time(),
		Notes:   req.Notes,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

// ListMileage handles GET /api/v1/cars/{id}/mileage.
func (h *CarHandler) ListMileage(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	logs, err := h.svc.ListMileage(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
