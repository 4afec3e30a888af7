package otp

import "time"

type IssueInput struct {
	Aadhaar          string
	EntrepreneurName string
	Mobile           string
}

type IssueResult struct {
	Mobile    string    `json:"mobile"`
	ExpiresAt time.Time `json:"expiryTime"`
}

type VerifyInput struct {
	Aadhaar string
	Mobile  string
	Code    string
}

type VerifyResult struct {
	Aadhaar    string    `json:"aadhaar"`
	Mobile     string    `json:"mobile"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

type StatusDTO struct {
	Exists     bool      `json:"exists"`
	Expired    bool      `json:"expired"`
	Verified   bool      `json:"verified"`
	Attempts   int       `json:"attempts"`
	ExpiryTime time.Time `json:"expiryTime"`
}
