package handler

import (
	"log/slog"
	"net/http"

	"github.com/autotrack/autotrack/internal/auth"
	"github.com/autotrack/autotrack/internal/service"
)

// DashboardHandler serves the garage summary.
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		svc:    svc,
		logger: logger,
	}
}

// Stats handles GET /api/v1/dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	stats, err := h.svc.Summarize(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
