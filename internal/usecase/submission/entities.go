package submission

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const EstimatedProcessingTime = "2-3 business days"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// maxOffset bounds (page-1)*limit so the offset never overflows.
	maxOffset = math.MaxInt32
)

// Gate windows for the persisted verification records.
const (
	OTPWindow = 30 * time.Minute
	PANWindow = 24 * time.Hour
)

type FormData struct {
	Aadhaar       string `json:"aadhaar"`
	Mobile        string `json:"mobile"`
	OTP           string `json:"-"`
	PAN           string `json:"pan"`
	PanHolderName string `json:"panHolderName"`
	DateOfBirth   string `json:"dateOfBirth"`
}

type SubmitInput struct {
	FormData  FormData
	Timestamp string
	UserAgent string
	IPAddress string
}

type SubmitResult struct {
	ApplicationID           string    `json:"applicationId"`
	Status                  string    `json:"status"`
	SubmittedAt             time.Time `json:"submittedAt"`
	EstimatedProcessingTime string    `json:"estimatedProcessingTime"`
}

// ValidationError carries per-field format errors.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("validation failed: %v", e.Fields) }

// IntegrityError carries every cross-check that failed against persisted records.
type IntegrityError struct {
	Fields map[string]string
}

func (e *IntegrityError) Error() string { return fmt.Sprintf("integrity check failed: %v", e.Fields) }

// DuplicateError points at the active submission for the same aadhaar/pan.
type DuplicateError struct {
	ApplicationID string    `json:"applicationId"`
	SubmittedAt   time.Time `json:"submittedAt"`
	Status        string    `json:"status"`
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate submission %s (%s)", e.ApplicationID, e.Status)
}

type HistoryEntry struct {
	Action    string          `json:"action"`
	Timestamp time.Time       `json:"timestamp"`
	Details   json.RawMessage `json:"details"`
}

type StatusDTO struct {
	ApplicationID string         `json:"applicationId"`
	Status        string         `json:"status"`
	ApplicantName string         `json:"applicantName"`
	PAN           string         `json:"pan"`
	SubmittedAt   time.Time      `json:"submittedAt"`
	ApprovedAt    *time.Time     `json:"approvedAt,omitempty"`
	StatusHistory []HistoryEntry `json:"statusHistory"`
}

type ListInput struct {
	Page   int
	Limit  int
	Status string
}

type SummaryDTO struct {
	ApplicationID string     `json:"applicationId"`
	PanHolderName string     `json:"panHolderName"`
	PAN           string     `json:"pan"`
	Mobile        string     `json:"mobile"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ListResult struct {
	Submissions []SummaryDTO `json:"submissions"`
	Pagination  Pagination   `json:"pagination"`
}

type StatusCounts struct {
	Submitted  int64 `json:"submitted"`
	Processing int64 `json:"processing"`
	Approved   int64 `json:"approved"`
	Rejected   int64 `json:"rejected"`
}

type Statistics struct {
	Total        int64        `json:"total"`
	ByStatus     StatusCounts `json:"byStatus"`
	Today        int64        `json:"today"`
	ApprovalRate string       `json:"approvalRate"`
}
