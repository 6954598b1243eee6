// Package dashboard derives the read-only views shown on the farm dashboard.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// ErrUnknownFilter indicates a filter value outside the supported set.
var ErrUnknownFilter = errors.New("unknown filter")

const recentProductionDays = 7

// Overview is the landing page summary.
type Overview struct {
	Farm                 models.Farm               `json:"farm"`
	AvgTemperature       float64                   `json:"avg_temperature"`
	AvgHumidity          float64                   `json:"avg_humidity"`
	UnreadCriticalAlerts int                       `json:"unread_critical_alerts"`
	UnreadAlerts         int                       `json:"unread_alerts"`
	LatestProduction     *models.ProductionRecord  `json:"latest_production,omitempty"`
	RecentProduction     []models.ProductionRecord `json:"recent_production"`
	Financials           models.FinancialMetrics   `json:"financials"`
	ProfitMargin         float64                   `json:"profit_margin"`
	RecentAlerts         []models.Alert            `json:"recent_alerts"`
}

// BuildOverview summarizes a snapshot for the dashboard landing page.
func BuildOverview(snap models.Snapshot) Overview {
	ov := Overview{
		Farm:             snap.Farm,
		AvgTemperature:   averageSensor(snap.SensorData, models.SensorTemperature),
		AvgHumidity:      averageSensor(snap.SensorData, models.SensorHumidity),
		RecentProduction: LastProduction(snap.ProductionData, recentProductionDays),
		Financials:       snap.FinancialMetrics,
		ProfitMargin:     snap.FinancialMetrics.ProfitMargin(),
	}
	if latest, ok := snap.LatestProduction(); ok {
		ov.LatestProduction = &latest
	}
	for _, a := range snap.Alerts {
		if a.IsRead {
			continue
		}
		ov.UnreadAlerts++
		if a.Type == models.AlertCritical {
			ov.UnreadCriticalAlerts++
		}
	}
	ov.RecentAlerts = snap.Alerts
	if len(ov.RecentAlerts) > 5 {
		ov.RecentAlerts = ov.RecentAlerts[:5]
	}
	return ov
}

func averageSensor(readings []models.SensorReading, kind models.SensorType) float64 {
	var sum float64
	var n int
	for _, r := range readings {
		if r.Type == kind {
			sum += r.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LastProduction returns the newest n records, or all of them when fewer exist.
func LastProduction(records []models.ProductionRecord, n int) []models.ProductionRecord {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[len(records)-n:]
}

// SensorLocations lists distinct sensor locations in first-seen order.
func SensorLocations(readings []models.SensorReading) []string {
	seen := make(map[string]bool, len(readings))
	locations := make([]string, 0, len(readings))
	for _, r := range readings {
		if !seen[r.Location] {
			seen[r.Location] = true
			locations = append(locations, r.Location)
		}
	}
	return locations
}

// SensorsAt filters readings by location; "" and "all" keep every reading.
func SensorsAt(readings []models.SensorReading, location string) []models.SensorReading {
	if location == "" || location == "all" {
		return readings
	}
	out := make([]models.SensorReading, 0, len(readings))
	for _, r := range readings {
		if r.Location == location {
			out = append(out, r)
		}
	}
	return out
}

// AlertFilter selects alerts by read state or severity.
type AlertFilter string

const (
	AlertsAll      AlertFilter = "all"
	AlertsUnread   AlertFilter = "unread"
	AlertsCritical AlertFilter = "critical"
	AlertsWarning  AlertFilter = "warning"
	AlertsInfo     AlertFilter = "info"
)

// ParseAlertFilter validates a filter value; empty means all.
func ParseAlertFilter(v string) (AlertFilter, error) {
	switch f := AlertFilter(strings.ToLower(strings.TrimSpace(v))); f {
	case "":
		return AlertsAll, nil
	case AlertsAll, AlertsUnread, AlertsCritical, AlertsWarning, AlertsInfo:
		return f, nil
	default:
		return "", fmt.Errorf("alert filter %q: %w", v, ErrUnknownFilter)
	}
}

// AlertCounts tallies alerts for the filter tabs.
type AlertCounts struct {
	All            int `json:"all"`
	Unread         int `json:"unread"`
	Read           int `json:"read"`
	Critical       int `json:"critical"`
	Warning        int `json:"warning"`
	Info           int `json:"info"`
	UnreadCritical int `json:"unread_critical"`
}

// AlertView is a filtered alert list with counts over the unfiltered set.
type AlertView struct {
	Alerts []models.Alert `json:"alerts"`
	Counts AlertCounts    `json:"counts"`
}

// FilterAlerts applies the filter and a case-insensitive search over title and message.
func FilterAlerts(alerts []models.Alert, filter AlertFilter, search string) AlertView {
	term := strings.ToLower(strings.TrimSpace(search))
	view := AlertView{Alerts: make([]models.Alert, 0, len(alerts))}

	for _, a := range alerts {
		view.Counts.All++
		if a.IsRead {
			view.Counts.Read++
		} else {
			view.Counts.Unread++
		}
		switch a.Type {
		case models.AlertCritical:
			view.Counts.Critical++
			if !a.IsRead {
				view.Counts.UnreadCritical++
			}
		case models.AlertWarning:
			view.Counts.Warning++
		case models.AlertInfo:
			view.Counts.Info++
		}

		matchesFilter := filter == AlertsAll || filter == "" ||
			(filter == AlertsUnread && !a.IsRead) ||
			string(filter) == string(a.Type)
		matchesSearch := term == "" ||
			strings.Contains(strings.ToLower(a.Title), term) ||
			strings.Contains(strings.ToLower(a.Message), term)

		if matchesFilter && matchesSearch {
			view.Alerts = append(view.Alerts, a)
		}
	}
	return view
}

// TaskFilter selects maintenance tasks by effective status.
type TaskFilter string

const (
	TasksAll        TaskFilter = "all"
	TasksPending    TaskFilter = "pending"
	TasksInProgress TaskFilter = "in_progress"
	TasksCompleted  TaskFilter = "completed"
	TasksOverdue    TaskFilter = "overdue"
)

// ParseTaskFilter validates a filter value; empty means all.
func ParseTaskFilter(v string) (TaskFilter, error) {
	switch f := TaskFilter(strings.ToLower(strings.TrimSpace(v))); f {
	case "":
		return TasksAll, nil
	case TasksAll, TasksPending, TasksInProgress, TasksCompleted, TasksOverdue:
		return f, nil
	default:
		return "", fmt.Errorf("task filter %q: %w", v, ErrUnknownFilter)
	}
}

// TaskItem is a task with its status as the operator should see it.
type TaskItem struct {
	models.MaintenanceTask
	EffectiveStatus models.TaskStatus `json:"effective_status"`
}

// TaskCounts tallies tasks for the filter tabs. Overdue overlaps pending and in-progress.
type TaskCounts struct {
	All        int `json:"all"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// TaskView is a filtered task list with counts over the unfiltered set.
type TaskView struct {
	Tasks  []TaskItem `json:"tasks"`
	Counts TaskCounts `json:"counts"`
}

// FilterTasks applies the filter. Overdue means not completed and due before now.
func FilterTasks(tasks []models.MaintenanceTask, filter TaskFilter, now time.Time) TaskView {
	view := TaskView{Tasks: make([]TaskItem, 0, len(tasks))}

	for _, t := range tasks {
		overdue := t.IsOverdue(now)

		view.Counts.All++
		switch t.Status {
		case models.TaskPending:
			view.Counts.Pending++
		case models.TaskInProgress:
			view.Counts.InProgress++
		case models.TaskCompleted:
			view.Counts.Completed++
		}
		if overdue {
			view.Counts.Overdue++
		}

		var keep bool
		switch filter {
		case TasksAll, "":
			keep = true
		case TasksOverdue:
			keep = overdue
		default:
			keep = string(t.Status) == string(filter)
		}
		if !keep {
			continue
		}

		item := TaskItem{MaintenanceTask: t, EffectiveStatus: t.Status}
		if overdue {
			item.EffectiveStatus = models.TaskOverdue
		}
		view.Tasks = append(view.Tasks, item)
	}
	return view
}

// ControlView groups control systems by type.
type ControlView struct {
	Systems  []models.ControlSystem                        `json:"systems"`
	ByType   map[models.ControlType][]models.ControlSystem `json:"by_type"`
	Active   int                                           `json:"active"`
	Inactive int                                           `json:"inactive"`
}

// GroupControls builds the controls page view.
func GroupControls(systems []models.ControlSystem) ControlView {
	view := ControlView{
		Systems: systems,
		ByType:  make(map[models.ControlType][]models.ControlSystem),
	}
	for _, cs := range systems {
		view.ByType[cs.Type] = append(view.ByType[cs.Type], cs)
		switch cs.Status {
		case models.ControlActive:
			view.Active++
		case models.ControlInactive:
			view.Inactive++
		}
	}
	return view
}
