package models

import (
	"time"
)

// ProcurementType is how vendors are selected: open auction (lelang) or
// direct appointment (penunjukan langsung).
type ProcurementType string

const (
	ProcurementLelang     ProcurementType = "lelang"
	ProcurementPenunjukan ProcurementType = "penunjukan"
)

func (t ProcurementType) Valid() bool {
	return t == ProcurementLelang || t == ProcurementPenunjukan
}

// ProcurementStatus is the lifecycle state of a procurement process.
type ProcurementStatus string

const (
	ProcurementOpen           ProcurementStatus = "open"
	ProcurementEvaluation     ProcurementStatus = "evaluation"
	ProcurementWinnerSelected ProcurementStatus = "winner_selected"
	ProcurementFailed         ProcurementStatus = "failed"
)

// ProcurementStatuses lists all valid statuses in display order.
var ProcurementStatuses = []ProcurementStatus{
	ProcurementOpen, ProcurementEvaluation, ProcurementWinnerSelected, ProcurementFailed,
}

func (s ProcurementStatus) Valid() bool {
	switch s {
	case ProcurementOpen, ProcurementEvaluation, ProcurementWinnerSelected, ProcurementFailed:
		return true
	}
	return false
}

// ParticipantStatus is the state of one vendor's bid in a procurement.
type ParticipantStatus string

const (
	ParticipantSubmitted ParticipantStatus = "submitted"
	ParticipantEvaluated ParticipantStatus = "evaluated"
	ParticipantWinner    ParticipantStatus = "winner"
	ParticipantLoser     ParticipantStatus = "loser"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantSubmitted, ParticipantEvaluated, ParticipantWinner, ParticipantLoser:
		return true
	}
	return false
}

// Procurement is a vendor-selection process run against a project.
type Procurement struct {
	ID              uint              `gorm:"primaryKey" json:"id" example:"1"`
	ProjectID       uint              `gorm:"not null;index" json:"project_id" example:"1"`
	ProcurementType ProcurementType   `gorm:"size:20;not null" json:"procurement_type" example:"lelang"`
	StartDate       DateOnly          `gorm:"not null" json:"start_date"`
	EndDate         DateOnly          `gorm:"not null" json:"end_date"`
	Status          ProcurementStatus `gorm:"size:20;not null" json:"status" example:"open"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Relations
	Project      *Project                 `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Participants []ProcurementParticipant `gorm:"foreignKey:ProcurementID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
}

func (Procurement) TableName() string {
	return "procurements"
}

// ProcurementParticipant is one vendor's bid in a procurement. A vendor can
// participate at most once per procurement.
type ProcurementParticipant struct {
	ID             uint              `gorm:"primaryKey" json:"id" example:"1"`
	ProcurementID  uint              `gorm:"not null;uniqueIndex:idx_procurement_vendor" json:"procurement_id" example:"1"`
	VendorID       uint              `gorm:"not null;uniqueIndex:idx_procurement_vendor" json:"vendor_id" example:"1"`
	BidValue       float64           `gorm:"type:numeric(15,2);not null" json:"bid_value" example:"2350000000"`
	FileKey        string            `gorm:"size:1024" json:"file_key,omitempty"`
	FileName       string            `gorm:"size:512" json:"file_name,omitempty"`
	SubmissionDate DateOnly          `gorm:"not null" json:"submission_date"`
	Status         ParticipantStatus `gorm:"size:20;not null" json:"status" example:"submitted"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Relations
	Procurement *Procurement `gorm:"foreignKey:ProcurementID;constraint:OnDelete:CASCADE" json:"procurement,omitempty"`
	Vendor      *Vendor      `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`

	// Computed on access, never persisted
	SignedFileURL   string `gorm:"-" json:"signed_file_url,omitempty"`
	BidValueDisplay string `gorm:"-" json:"bid_value_display,omitempty"`
}

func (ProcurementParticipant) TableName() string {
	return "procurement_participants"
}
