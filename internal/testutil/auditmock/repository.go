package auditmock

import (
	"context"
	"sync"

	domain "udyam-verification/internal/domain/audit"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn              func(ctx context.Context, l *domain.Log) error
	ListByApplicationIDFn func(ctx context.Context, applicationID string) ([]domain.Log, error)

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

func (m *Repo) ListByApplicationID(ctx context.Context, applicationID string) ([]domain.Log, error) {
	if m.ListByApplicationIDFn != nil {
		return m.ListByApplicationIDFn(ctx, applicationID)
	}
	return nil, context.Canceled
}

func (m *Repo) Actions() []domain.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Action, 0, len(m.Created))
	for _, l := range m.Created {
		out = append(out, l.Action)
	}
	return out
}
