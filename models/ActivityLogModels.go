package models

import (
	"time"
)

// ActivityLog records an administrative mutation for audit purposes.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      string    `gorm:"size:36;not null" json:"event_id" example:"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"`
	EventContext string    `gorm:"size:100;not null" json:"event_context" example:"Vendor"`
	EventName    string    `gorm:"size:100;not null" json:"event_name" example:"Create"`
	Description  string    `gorm:"size:1000" json:"description" example:"Create Vendor"`
	UserName     string    `gorm:"size:255" json:"user_name" example:"admin"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
