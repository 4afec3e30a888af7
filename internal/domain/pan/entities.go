package pan

import (
	"errors"
	"time"
)

// CacheWindow is how long a VERIFIED entry short-circuits a new lookup and
// satisfies the submission gate.
const CacheWindow = 24 * time.Hour

type Status string

const (
	StatusVerified Status = "VERIFIED"
	StatusFailed   Status = "FAILED"
)

var (
	ErrNotFound     = errors.New("PAN not found in records")
	ErrInactive     = errors.New("PAN is not active")
	ErrNameMismatch = errors.New("Name does not match PAN records")
	ErrDOBMismatch  = errors.New("Date of birth does not match PAN records")

	ErrUnderage   = errors.New("Applicant must be at least 18 years old")
	ErrInvalidAge = errors.New("Please enter a valid date of birth")
)

// Verification is one persisted verification attempt.
type Verification struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"-"`
	Pan              string    `gorm:"size:10;not null;index:idx_pan_verifications_pan" json:"pan"`
	PanHolderName    string    `gorm:"size:100;not null" json:"panHolderName"`
	DateOfBirth      time.Time `gorm:"not null" json:"dateOfBirth"`
	Status           Status    `gorm:"size:16;not null;index:idx_pan_verifications_pan" json:"status"`
	ErrorMessage     string    `gorm:"size:255" json:"errorMessage,omitempty"`
	VerificationData string    `gorm:"type:text" json:"-"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index:idx_pan_verifications_pan" json:"createdAt"`
}

func (Verification) TableName() string { return "pan_verifications" }

// Record is an entry of the reference directory.
type Record struct {
	PAN         string `json:"pan"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	Status      string `json:"status"`
}

const RecordActive = "ACTIVE"

// ErrNoVerification means no attempt was ever recorded for a PAN.
var ErrNoVerification = errors.New("no verification found for this PAN")
