package pan

import "time"

type VerifyInput struct {
	PAN         string
	Name        string
	DateOfBirth string
}

// VerifyResult is either a fresh lookup or, with Cached set, a recent
// verified attempt for the same PAN.
type VerifyResult struct {
	PAN         string    `json:"pan"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Status      string    `json:"status,omitempty"`
	VerifiedAt  time.Time `json:"verifiedAt"`
	Age         int       `json:"age,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

type StatusDTO struct {
	PAN          string    `json:"pan"`
	Status       string    `json:"status"`
	VerifiedAt   time.Time `json:"verifiedAt"`
	Name         string    `json:"name"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

type DirectoryEntry struct {
	PAN         string `json:"pan"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
}
