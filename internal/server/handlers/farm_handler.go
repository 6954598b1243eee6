package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/service/dashboard"
	"github.com/mamadbah2/farmdash/internal/service/operations"
	"github.com/mamadbah2/farmdash/internal/service/reporting"
)

// SnapshotReader exposes the current farm state.
type SnapshotReader interface {
	Snapshot() models.Snapshot
}

// ReportArchive lists previously delivered daily digests.
type ReportArchive interface {
	RecentReports(ctx context.Context, limit int64) ([]models.DailyReport, error)
}

const (
	defaultArchiveLimit = 30
	maxArchiveLimit     = 365
)

// FarmHandler serves the dashboard API.
type FarmHandler struct {
	state     SnapshotReader
	ops       *operations.Service
	reporting *reporting.Service
	archive   ReportArchive
	logger    *zap.Logger
	now       func() time.Time
}

// NewFarmHandler constructs the HTTP handler adapter. archive may be nil when
// digests are not archived.
func NewFarmHandler(state SnapshotReader, ops *operations.Service, reports *reporting.Service, archive ReportArchive, logger *zap.Logger) *FarmHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmHandler{state: state, ops: ops, reporting: reports, archive: archive, logger: logger, now: time.Now}
}

// Snapshot returns the complete farm state.
func (h *FarmHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Snapshot())
}

// Dashboard returns the landing page overview.
func (h *FarmHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, dashboard.BuildOverview(h.state.Snapshot()))
}

// Sensors lists readings, optionally for one location.
func (h *FarmHandler) Sensors(c *gin.Context) {
	readings := dashboard.SensorsAt(h.state.Snapshot().SensorData, c.Query("location"))
	c.JSON(http.StatusOK, gin.H{"sensors": readings})
}

// SensorLocations lists the distinct sensor locations.
func (h *FarmHandler) SensorLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locations": dashboard.SensorLocations(h.state.Snapshot().SensorData)})
}

// Refresh forces a data refresh.
func (h *FarmHandler) Refresh(c *gin.Context) {
	snap := h.ops.Refresh()
	c.JSON(http.StatusOK, gin.H{"version": snap.Version, "sensors": snap.SensorData})
}

// Production returns the newest production records.
func (h *FarmHandler) Production(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}
	c.JSON(http.StatusOK, gin.H{"production": dashboard.LastProduction(h.state.Snapshot().ProductionData, days)})
}

// Controls returns control systems grouped by type.
func (h *FarmHandler) Controls(c *gin.Context) {
	c.JSON(http.StatusOK, dashboard.GroupControls(h.state.Snapshot().ControlSystems))
}

// UpdateControl merges a partial update into a control system.
func (h *FarmHandler) UpdateControl(c *gin.Context) {
	var patch models.ControlSystemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid control patch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cs, err := h.ops.UpdateControlSystem(c.Param("id"), patch)
	h.respond(c, cs, err)
}

// ToggleControl switches a control system on or off.
func (h *FarmHandler) ToggleControl(c *gin.Context) {
	cs, err := h.ops.ToggleSystem(c.Param("id"))
	h.respond(c, cs, err)
}

// ToggleAutomation flips automation on a control system.
func (h *FarmHandler) ToggleAutomation(c *gin.Context) {
	cs, err := h.ops.ToggleAutomation(c.Param("id"))
	h.respond(c, cs, err)
}

type targetRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

// SetTarget sets the target value of a control system.
func (h *FarmHandler) SetTarget(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid target payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}
	cs, err := h.ops.SetTargetValue(c.Param("id"), *req.Value)
	h.respond(c, cs, err)
}

// Alerts lists alerts by filter and search term with counts.
func (h *FarmHandler) Alerts(c *gin.Context) {
	filter, err := dashboard.ParseAlertFilter(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard.FilterAlerts(h.state.Snapshot().Alerts, filter, c.Query("q")))
}

// MarkAlertRead flags an alert as read.
func (h *FarmHandler) MarkAlertRead(c *gin.Context) {
	alert, err := h.ops.MarkAlertRead(c.Param("id"))
	h.respond(c, alert, err)
}

// Maintenance lists tasks by filter with counts.
func (h *FarmHandler) Maintenance(c *gin.Context) {
	filter, err := dashboard.ParseTaskFilter(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard.FilterTasks(h.state.Snapshot().MaintenanceTasks, filter, h.now()))
}

// CreateTask adds a maintenance task.
func (h *FarmHandler) CreateTask(c *gin.Context) {
	var req models.NewMaintenanceTask
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid task payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	task, err := h.ops.CreateTask(req)
	if err != nil {
		h.respond(c, nil, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask merges a partial update into a task.
func (h *FarmHandler) UpdateTask(c *gin.Context) {
	var patch models.MaintenanceTaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid task patch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	task, err := h.ops.UpdateTask(c.Param("id"), patch)
	h.respond(c, task, err)
}

type statusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required,oneof=pending in_progress completed overdue"`
}

// SetTaskStatus transitions a task.
func (h *FarmHandler) SetTaskStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid status payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of pending, in_progress, completed, overdue"})
		return
	}
	task, err := h.ops.SetTaskStatus(c.Param("id"), req.Status)
	h.respond(c, task, err)
}

// Analytics returns production analytics for 7d, 30d or 90d.
func (h *FarmHandler) Analytics(c *gin.Context) {
	days, err := reporting.ParseRange(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.reporting.Analytics(days))
}

// Report returns a daily, weekly or monthly report around a date (default today).
func (h *FarmHandler) Report(c *gin.Context) {
	kind, err := reporting.ParseReportType(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := h.reporting.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	c.JSON(http.StatusOK, h.reporting.Report(kind, date))
}

// ReportArchive lists the newest archived daily digests.
func (h *FarmHandler) ReportArchive(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report archive is not configured"})
		return
	}

	limit := defaultArchiveLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxArchiveLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 365"})
			return
		}
		limit = n
	}

	reports, err := h.archive.RecentReports(c.Request.Context(), int64(limit))
	if err != nil {
		h.logger.Error("failed to list archived reports", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "report archive unavailable"})
		return
	}
	if reports == nil {
		reports = []models.DailyReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *FarmHandler) respond(c *gin.Context, body any, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, body)
	case errors.Is(err, operations.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, operations.ErrInvalidArguments):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
