package models

import (
	"time"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectOngoing   ProjectStatus = "ongoing"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ProjectStatuses lists all valid statuses in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectPlanning, ProjectOngoing, ProjectCompleted, ProjectCancelled,
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectOngoing, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project is a unit of work procurements are run against.
type Project struct {
	ID           uint          `gorm:"primaryKey" json:"id" example:"1"`
	ProjectName  string        `gorm:"size:255;not null" json:"project_name" example:"Data Center Expansion"`
	ProjectValue float64       `gorm:"type:numeric(15,2);not null" json:"project_value" example:"2500000000"`
	StartDate    DateOnly      `gorm:"not null" json:"start_date"`
	EndDate      DateOnly      `gorm:"not null" json:"end_date"`
	Status       ProjectStatus `gorm:"size:20;not null" json:"status" example:"planning"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Relations
	Procurements []Procurement `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"procurements,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}
