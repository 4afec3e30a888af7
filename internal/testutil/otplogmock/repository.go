package otplogmock

import (
	"context"
	"sync"
	"time"

	domain "udyam-verification/internal/domain/otp"
)

var _ domain.LogRepository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.LogRepository.
// Create calls are recorded in Created when CreateFn is nil.
type Repo struct {
	CreateFn       func(ctx context.Context, l *domain.Log) error
	FindVerifiedFn func(ctx context.Context, aadhaar, mobile string, since time.Time) (*domain.Log, error)

	mu      sync.Mutex
	Created []domain.Log
}

func (m *Repo) Create(ctx context.Context, l *domain.Log) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	m.mu.Lock()
	m.Created = append(m.Created, *l)
	m.mu.Unlock()
	return nil
}

func (m *Repo) FindVerified(ctx context.Context, aadhaar, mobile string, since time.Time) (*domain.Log, error) {
	if m.FindVerifiedFn != nil {
		return m.FindVerifiedFn(ctx, aadhaar, mobile, since)
	}
	return nil, context.Canceled
}

// Logs returns a copy of the recorded rows.
func (m *Repo) Logs() []domain.Log {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Log(nil), m.Created...)
}
