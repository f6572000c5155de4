package handler

import (
	"fmt"
	"net/http"

	"github.com/autotrack/autotrack/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "autotrack_cars_created_total %d\n", snap.CarsCreated)
	writeMetric(w, "autotrack_cars_deleted_total %d\n", snap.CarsDeleted)
	writeMetric(w, "autotrack_mileage_logged_total %d\n", snap.MileageLogged)

	writeMetric(w, "autotrack_tasks_created_total %d\n", snap.TasksCreated)
	writeMetric(w, "autotrack_tasks_updated_total %d\n", snap.TasksUpdated)
	writeMetric(w, "autotrack_tasks_completed_total %d\n", snap.TasksCompleted)

	writeMetric(w, "autotrack_dashboard_cache_hits_total %d\n", snap.DashboardCacheHits)
	writeMetric(w, "autotrack_dashboard_cache_misses_total %d\n", snap.DashboardCacheMisses)
	writeMetric(w, "autotrack_dashboard_summarize_duration_seconds_count %d\n", snap.SummarizeDurationCount)
	writeMetric(w, "autotrack_dashboard_summarize_duration_seconds_sum %.6f\n", float64(snap.SummarizeDurationTotalNs)/1e9)

	writeMetric(w, "autotrack_notifications_created_total %d\n", snap.NotificationsCreated)
	writeMetric(w, "autotrack_reminder_emails_total{status=\"sent\"} %d\n", snap.ReminderEmailsSent)
	writeMetric(w, "autotrack_reminder_emails_total{status=\"failed\"} %d\n", snap.ReminderEmailsFailed)
	writeMetric(w, "autotrack_reminder_emails_total{status=\"skipped\"} %d\n", snap.ReminderEmailsSkipped)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
