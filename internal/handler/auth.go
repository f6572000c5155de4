package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/autotrack/autotrack/internal/auth"
	"github.com/autotrack/autotrack/internal/handler/dto"
	"github.com/autotrack/autotrack/internal/service"
)

// AuthHandler handles registration, login, and account endpoints.
type AuthHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "user_id", result.User.ID)
	writeJSON(w, http.StatusCreated, dto.AuthResponse{Token: result.Token, User: result.User})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", result.User.ID)
	writeJSON(w, http.StatusOK, dto.AuthResponse{Token: result.Token, User: result.User})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if err := h.svc.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := auth.MustIdentityFromContext(r.Context())

	user, err := h.svc.GetUser(r.Context(), id.UserID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetSettings handles GET /api/v1/settings.
func (h *AuthHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	id := auth.MustIdentityFromContext(r.Context())

	user, err := h.svc.GetUser(r.Context(), id.UserID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Settings)
}

// UpdateSettings handles PATCH /api/v1/settings.
func (h *AuthHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id := auth.MustIdentityFromContext(r.Context())

	var req dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	settings, err := h.svc.UpdateSettings(r.Context(), id.UserID, service.UpdateSettingsInput{
		EmailReminders:     req.EmailReminders,
		PushNotifications:  req.PushNotifications,
		ReminderDaysBefore: req.ReminderDaysBefore,
		Theme:              req.Theme,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// bearerToken extracts the token from the Authorization header, or returns
// an empty string.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
