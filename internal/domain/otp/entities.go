package otp

import (
	"errors"
	"fmt"
	"time"
)

const (
	CodeTTL     = 10 * time.Minute
	MaxAttempts = 3

	// RateLimit issuances are allowed per mobile within RateWindow.
	RateLimit  = 3
	RateWindow = time.Hour
)

var (
	ErrNotFound         = errors.New("otp not found")
	ErrExpired          = errors.New("otp expired")
	ErrAlreadyVerified  = errors.New("otp already verified")
	ErrAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrInvalidCode      = errors.New("otp invalid code")
	ErrRateLimited      = errors.New("otp rate limited")
)

// InvalidCodeError reports a mismatch together with the attempts left.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid otp, %d attempts remaining", e.Remaining)
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidCode }

// State of an issued code as seen by a caller.
type State string

const (
	StateNone     State = "NONE"
	StateIssued   State = "ISSUED"
	StateVerified State = "VERIFIED"
	StateExpired  State = "EXPIRED"
	StateLocked   State = "LOCKED"
)

// Record is the in-memory OTP kept per (aadhaar, mobile).
type Record struct {
	Code             string
	Aadhaar          string
	Mobile           string
	EntrepreneurName string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	Attempts         int
	Verified         bool
}

func Key(aadhaar, mobile string) string { return aadhaar + "_" + mobile }

func (r *Record) Expired(now time.Time) bool { return now.After(r.ExpiresAt) }

func (r *Record) State(now time.Time) State {
	switch {
	case r == nil:
		return StateNone
	case r.Expired(now):
		return StateExpired
	case r.Verified:
		return StateVerified
	case r.Attempts >= MaxAttempts:
		return StateLocked
	default:
		return StateIssued
	}
}

type LogStatus string

const (
	LogSent     LogStatus = "SENT"
	LogVerified LogStatus = "VERIFIED"
)

// Log is the persisted, append-only audit trail of issued and verified codes.
// It is written best-effort next to the in-memory Record, so the two can diverge.
type Log struct {
	ID         uint64     `gorm:"primaryKey;column:id" json:"-"`
	Aadhaar    string     `gorm:"size:12;not null;index:idx_otp_logs_lookup" json:"aadhaar"`
	Mobile     string     `gorm:"size:10;not null;index:idx_otp_logs_lookup" json:"mobile"`
	OtpHash    string     `gorm:"size:64" json:"-"`
	Status     LogStatus  `gorm:"size:16;not null;index:idx_otp_logs_lookup" json:"status"`
	ExpiryTime time.Time  `gorm:"not null" json:"expiryTime"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (Log) TableName() string { return "otp_logs" }
