package otp

import (
	"context"
	"time"
)

type LogRepository interface {
	Create(ctx context.Context, l *Log) error
	// FindVerified returns the newest VERIFIED entry for the pair verified at or after since.
	FindVerified(ctx context.Context, aadhaar, mobile string, since time.Time) (*Log, error)
}
