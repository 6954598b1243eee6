package operations

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/store"
)

// ErrNotFound indicates no entity matches the requested id.
var ErrNotFound = errors.New("not found")

// ErrInvalidArguments indicates the request payload is incomplete or inconsistent.
var ErrInvalidArguments = errors.New("invalid arguments")

const defaultEstimatedDuration = 60

// Service translates operator intents into store mutations.
type Service struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the operations service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, logger: logger, now: time.Now}
}

// ToggleSystem switches an active system off and anything else on.
func (s *Service) ToggleSystem(id string) (models.ControlSystem, error) {
	updated, ok := s.store.UpdateControlSystemFunc(id, func(cs models.ControlSystem) models.ControlSystemPatch {
		next := models.ControlActive
		if cs.Status == models.ControlActive {
			next = models.ControlInactive
		}
		return models.ControlSystemPatch{Status: &next}
	})
	if !ok {
		return models.ControlSystem{}, fmt.Errorf("control system %s: %w", id, ErrNotFound)
	}
	s.logger.Info("control system toggled", zap.String("id", id), zap.String("name", updated.Name), zap.String("status", string(updated.Status)))
	return updated, nil
}

// ToggleAutomation flips the automation flag of a system.
func (s *Service) ToggleAutomation(id string) (models.ControlSystem, error) {
	updated, ok := s.store.UpdateControlSystemFunc(id, func(cs models.ControlSystem) models.ControlSystemPatch {
		automated := !cs.IsAutomated
		return models.ControlSystemPatch{IsAutomated: &automated}
	})
	if !ok {
		return models.ControlSystem{}, fmt.Errorf("control system %s: %w", id, ErrNotFound)
	}
	s.logger.Info("automation toggled", zap.String("id", id), zap.Bool("automated", updated.IsAutomated))
	return updated, nil
}

// SetTargetValue changes the set point of a system.
func (s *Service) SetTargetValue(id string, value float64) (models.ControlSystem, error) {
	updated, err := s.UpdateControlSystem(id, models.ControlSystemPatch{TargetValue: &value})
	if err != nil {
		return models.ControlSystem{}, err
	}
	s.logger.Info("target value updated", zap.String("id", id), zap.Float64("target", value))
	return updated, nil
}

// UpdateControlSystem applies an arbitrary patch.
func (s *Service) UpdateControlSystem(id string, patch models.ControlSystemPatch) (models.ControlSystem, error) {
	updated, ok := s.store.UpdateControlSystem(id, patch)
	if !ok {
		return models.ControlSystem{}, fmt.Errorf("control system %s: %w", id, ErrNotFound)
	}
	return updated, nil
}

// MarkAlertRead flags an alert as read. Re-reading an alert is not an error.
func (s *Service) MarkAlertRead(id string) (models.Alert, error) {
	s.store.MarkAlertAsRead(id)
	for _, a := range s.store.Snapshot().Alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Alert{}, fmt.Errorf("alert %s: %w", id, ErrNotFound)
}

// CreateTask validates and stores a new maintenance task. New tasks always start pending.
func (s *Service) CreateTask(input models.NewMaintenanceTask) (models.MaintenanceTask, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return models.MaintenanceTask{}, fmt.Errorf("title is required: %w", ErrInvalidArguments)
	}
	if input.DueDate.IsZero() {
		return models.MaintenanceTask{}, fmt.Errorf("due date is required: %w", ErrInvalidArguments)
	}
	if input.EstimatedDuration < 0 {
		return models.MaintenanceTask{}, fmt.Errorf("estimated duration must not be negative: %w", ErrInvalidArguments)
	}

	input.Status = models.TaskPending
	input.CompletedDate = nil
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.EstimatedDuration == 0 {
		input.EstimatedDuration = defaultEstimatedDuration
	}

	task := s.store.AddMaintenanceTask(input)
	s.logger.Info("maintenance task added", zap.String("id", task.ID), zap.String("title", task.Title))
	return task, nil
}

// SetTaskStatus transitions a task, stamping the completion time when it is completed.
func (s *Service) SetTaskStatus(id string, status models.TaskStatus) (models.MaintenanceTask, error) {
	patch := models.MaintenanceTaskPatch{Status: &status}
	if status == models.TaskCompleted {
		completed := s.now()
		patch.CompletedDate = &completed
	}

	task, err := s.UpdateTask(id, patch)
	if err != nil {
		return models.MaintenanceTask{}, err
	}
	s.logger.Info("task status updated", zap.String("id", id), zap.String("status", string(status)))
	return task, nil
}

// UpdateTask applies an arbitrary patch.
func (s *Service) UpdateTask(id string, patch models.MaintenanceTaskPatch) (models.MaintenanceTask, error) {
	task, ok := s.store.UpdateMaintenanceTask(id, patch)
	if !ok {
		return models.MaintenanceTask{}, fmt.Errorf("maintenance task %s: %w", id, ErrNotFound)
	}
	return task, nil
}

// Refresh forces an immediate data refresh.
func (s *Service) Refresh() models.Snapshot {
	s.store.Refresh()
	return s.store.Snapshot()
}
