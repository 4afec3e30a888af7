package audit

import "time"

type Action string

const (
	ActionFormSubmitted    Action = "FORM_SUBMITTED"
	ActionStatusProcessing Action = "STATUS_PROCESSING"
	ActionStatusApproved   Action = "STATUS_APPROVED"
)

// Log is one lifecycle event of an application.
type Log struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	EventID       string    `gorm:"size:36;not null;uniqueIndex:ux_audit_logs_event_id" json:"eventId"`
	ApplicationID string    `gorm:"size:40;not null;index:idx_audit_logs_application_id" json:"applicationId"`
	Action        Action    `gorm:"size:32;not null" json:"action"`
	Details       string    `gorm:"type:text" json:"-"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
}

func (Log) TableName() string { return "audit_logs" }
