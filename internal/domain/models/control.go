package models

import "time"

// ControlType enumerates the automated subsystems of a coop.
type ControlType string

const (
	ControlClimate  ControlType = "climate"
	ControlLighting ControlType = "lighting"
	ControlFeeding  ControlType = "feeding"
	ControlWater    ControlType = "water"
	ControlWaste    ControlType = "waste"
)

// ControlStatus is the operating state of a control system.
type ControlStatus string

const (
	ControlActive      ControlStatus = "active"
	ControlInactive    ControlStatus = "inactive"
	ControlMaintenance ControlStatus = "maintenance"
)

// ControlSystem is an operator-adjustable piece of farm equipment.
type ControlSystem struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         ControlType   `json:"type"`
	Status       ControlStatus `json:"status"`
	IsAutomated  bool          `json:"is_automated"`
	CurrentValue float64       `json:"current_value"`
	TargetValue  float64       `json:"target_value"`
	Unit         string        `json:"unit"`
	LastUpdated  time.Time     `json:"last_updated"`
}

// ControlSystemPatch holds the fields to merge into a control system. Nil fields are left untouched.
type ControlSystemPatch struct {
	Name         *string        `json:"name,omitempty"`
	Type         *ControlType   `json:"type,omitempty" binding:"omitempty,oneof=climate lighting feeding water waste"`
	Status       *ControlStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive maintenance"`
	IsAutomated  *bool          `json:"is_automated,omitempty"`
	CurrentValue *float64       `json:"current_value,omitempty"`
	TargetValue  *float64       `json:"target_value,omitempty"`
	Unit         *string        `json:"unit,omitempty"`
}

// Apply returns a copy of cs with the patch merged in.
func (p ControlSystemPatch) Apply(cs ControlSystem) ControlSystem {
	if p.Name != nil {
		cs.Name = *p.Name
	}
	if p.Type != nil {
		cs.Type = *p.Type
	}
	if p.Status != nil {
		cs.Status = *p.Status
	}
	if p.IsAutomated != nil {
		cs.IsAutomated = *p.IsAutomated
	}
	if p.CurrentValue != nil {
		cs.CurrentValue = *p.CurrentValue
	}
	if p.TargetValue != nil {
		cs.TargetValue = *p.TargetValue
	}
	if p.Unit != nil {
		cs.Unit = *p.Unit
	}
	return cs
}
