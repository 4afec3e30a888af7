package submission

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("application not found")

type Status string

const (
	StatusSubmitted  Status = "SUBMITTED"
	StatusProcessing Status = "PROCESSING"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
)

// ActiveStatuses block a second submission for the same aadhaar/pan pair.
var ActiveStatuses = []Status{StatusSubmitted, StatusProcessing, StatusApproved}

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusProcessing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type FormSubmission struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID  string     `gorm:"size:40;not null;uniqueIndex:ux_form_submissions_application_id" json:"applicationId"`
	Aadhaar        string     `gorm:"size:12;not null;index:idx_form_submissions_aadhaar_pan" json:"aadhaar"`
	Mobile         string     `gorm:"size:10;not null" json:"mobile"`
	Pan            string     `gorm:"size:10;not null;index:idx_form_submissions_aadhaar_pan" json:"pan"`
	PanHolderName  string     `gorm:"size:100;not null" json:"panHolderName"`
	DateOfBirth    time.Time  `gorm:"not null" json:"dateOfBirth"`
	Status         Status     `gorm:"size:16;not null;default:'SUBMITTED';index:idx_form_submissions_status" json:"status"`
	SubmissionData string     `gorm:"type:text" json:"-"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	IPAddress      string     `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent      string     `gorm:"type:text" json:"userAgent,omitempty"`
	CreatedAt      time.Time  `gorm:"index:idx_form_submissions_created_at" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (FormSubmission) TableName() string { return "form_submissions" }

// Filter narrows list and count queries. Zero values match everything.
type Filter struct {
	Status Status
	Since  time.Time
}
