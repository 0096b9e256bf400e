// internal/handlers/notification/notification.go
package notification

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"visatrack-service/internal/pkg/dateutil"
	xerrors "visatrack-service/internal/pkg/errors"
	"visatrack-service/internal/pkg/response"
	"visatrack-service/internal/service/dashboard"
	"visatrack-service/internal/service/expiry"
	service "visatrack-service/internal/service/notification"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	scheduler           *expiry.Scheduler
	dashboardService    *dashboard.DashboardService
}

func NewNotificationHandler(
	notificationService *service.NotificationService,
	scheduler *expiry.Scheduler,
	dashboardService *dashboard.DashboardService,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		scheduler:           scheduler,
		dashboardService:    dashboardService,
	}
}

// TriggerRun starts a reminder run outside the daily schedule. Returns 409
// when a run is already in flight.
func (h *NotificationHandler) TriggerRun(c *gin.Context) {
	summary, err := h.scheduler.RunNow(c.Request.Context())
	if err != nil {
		if errors.Is(err, xerrors.ErrRunInProgress) {
			response.Conflict(c, "a run is already in progress", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "reminder run failed", err)
		return
	}

	response.Success(c, http.StatusOK, "reminder run complete", summary)
}

// TriggerArchive moves expired clients to history outside the daily schedule.
func (h *NotificationHandler) TriggerArchive(c *gin.Context) {
	result, err := h.scheduler.ArchiveNow(c.Request.Context())
	if err != nil {
		if errors.Is(err, xerrors.ErrRunInProgress) {
			response.Conflict(c, "a run is already in progress", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "archival failed", err)
		return
	}

	h.dashboardService.Invalidate(c.Request.Context())
	response.Success(c, http.StatusOK, "expired clients archived", result)
}

// GetStats returns audit-log counts grouped by type, status and day,
// optionally bounded by start/end dates.
func (h *NotificationHandler) GetStats(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid date range", err)
		return
	}

	stats, err := h.notificationService.Stats(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load notification stats", err)
		return
	}
	response.Success(c, http.StatusOK, "stats retrieved", stats)
}

// GetClientHistory returns every send attempt recorded for one client.
func (h *NotificationHandler) GetClientHistory(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	attempts, err := h.notificationService.ClientHistory(c.Request.Context(), clientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load notification history", err)
		return
	}
	response.Success(c, http.StatusOK, "notification history retrieved", attempts)
}

// GetFailed returns failed sends, optionally bounded by start/end dates.
func (h *NotificationHandler) GetFailed(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid date range", err)
		return
	}

	attempts, err := h.notificationService.FailedAttempts(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load failed notifications", err)
		return
	}
	response.Success(c, http.StatusOK, "failed notifications retrieved", attempts)
}

func dateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if v := c.Query("start"); v != "" {
		t, err := dateutil.Parse(v)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := dateutil.Parse(v)
		if err != nil {
			return nil, nil, err
		}
		end = &t
	}
	return start, end, nil
}
