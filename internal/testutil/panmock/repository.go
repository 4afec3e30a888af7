package panmock

import (
	"context"
	"sync"
	"time"

	domain "udyam-verification/internal/domain/pan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, v *domain.Verification) error
	LatestVerifiedFn func(ctx context.Context, pan string, since time.Time) (*domain.Verification, error)
	LatestFn         func(ctx context.Context, pan string) (*domain.Verification, error)

	mu      sync.Mutex
	Created []domain.Verification
}

func (m *Repo) Create(ctx context.Context, v *domain.Verification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, v)
	}
	m.mu.Lock()
	m.Created = append(m.Created, *v)
	m.mu.Unlock()
	return nil
}

func (m *Repo) LatestVerified(ctx context.Context, pan string, since time.Time) (*domain.Verification, error) {
	if m.LatestVerifiedFn != nil {
		return m.LatestVerifiedFn(ctx, pan, since)
	}
	return nil, context.Canceled
}

func (m *Repo) Latest(ctx context.Context, pan string) (*domain.Verification, error) {
	if m.LatestFn != nil {
		return m.LatestFn(ctx, pan)
	}
	return nil, context.Canceled
}

func (m *Repo) Verifications() []domain.Verification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Verification(nil), m.Created...)
}
