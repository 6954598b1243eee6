package models

import "time"

// TaskPriority ranks maintenance urgency.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// TaskStatus is the lifecycle state of a maintenance task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOverdue    TaskStatus = "overdue"
)

// MaintenanceTask is a unit of scheduled equipment work.
type MaintenanceTask struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Priority          TaskPriority `json:"priority"`
	Status            TaskStatus   `json:"status"`
	AssignedTo        string       `json:"assigned_to"`
	DueDate           time.Time    `json:"due_date"`
	CompletedDate     *time.Time   `json:"completed_date,omitempty"`
	Equipment         string       `json:"equipment"`
	EstimatedDuration int          `json:"estimated_duration"` // minutes
}

// IsOverdue reports whether the task is still open past its due date.
func (t MaintenanceTask) IsOverdue(now time.Time) bool {
	return t.Status != TaskCompleted && t.DueDate.Before(now)
}

// NewMaintenanceTask carries every task field except the id, which the store assigns.
type NewMaintenanceTask struct {
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Priority          TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Status            TaskStatus   `json:"status" binding:"omitempty,oneof=pending in_progress completed overdue"`
	AssignedTo        string       `json:"assigned_to"`
	DueDate           time.Time    `json:"due_date"`
	CompletedDate     *time.Time   `json:"completed_date,omitempty"`
	Equipment         string       `json:"equipment"`
	EstimatedDuration int          `json:"estimated_duration"`
}

// WithID materializes the task under the given id.
func (n NewMaintenanceTask) WithID(id string) MaintenanceTask {
	return MaintenanceTask{
		ID:                id,
		Title:             n.Title,
		Description:       n.Description,
		Priority:          n.Priority,
		Status:            n.Status,
		AssignedTo:        n.AssignedTo,
		DueDate:           n.DueDate,
		CompletedDate:     n.CompletedDate,
		Equipment:         n.Equipment,
		EstimatedDuration: n.EstimatedDuration,
	}
}

// MaintenanceTaskPatch holds the fields to merge into a task. Nil fields are left untouched.
type MaintenanceTaskPatch struct {
	Title             *string       `json:"title,omitempty"`
	Description       *string       `json:"description,omitempty"`
	Priority          *TaskPriority `json:"priority,omitempty" binding:"omitempty,oneof=low medium high critical"`
	Status            *TaskStatus   `json:"status,omitempty" binding:"omitempty,oneof=pending in_progress completed overdue"`
	AssignedTo        *string       `json:"assigned_to,omitempty"`
	DueDate           *time.Time    `json:"due_date,omitempty"`
	CompletedDate     *time.Time    `json:"completed_date,omitempty"`
	Equipment         *string       `json:"equipment,omitempty"`
	EstimatedDuration *int          `json:"estimated_duration,omitempty"`
}

// Apply returns a copy of t with the patch merged in.
func (p MaintenanceTaskPatch) Apply(t MaintenanceTask) MaintenanceTask {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.CompletedDate != nil {
		completed := *p.CompletedDate
		t.CompletedDate = &completed
	}
	if p.Equipment != nil {
		t.Equipment = *p.Equipment
	}
	if p.EstimatedDuration != nil {
		t.EstimatedDuration = *p.EstimatedDuration
	}
	return t
}
