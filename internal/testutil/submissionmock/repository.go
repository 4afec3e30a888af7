package submissionmock

import (
	"context"
	"time"

	domain "udyam-verification/internal/domain/submission"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; unset ones fail with context.Canceled.
type Repo struct {
	CreateFn                      func(ctx context.Context, s *domain.FormSubmission) error
	GetByApplicationIDFn          func(ctx context.Context, applicationID string) (*domain.FormSubmission, error)
	GetByApplicationIDForUpdateFn func(ctx context.Context, applicationID string) (*domain.FormSubmission, error)
	FindActiveFn                  func(ctx context.Context, aadhaar, pan string) (*domain.FormSubmission, error)
	UpdateStatusFn                func(ctx context.Context, applicationID string, from, to domain.Status, at time.Time) (bool, error)
	ListFn                        func(ctx context.Context, f domain.Filter, offset, limit int) ([]domain.FormSubmission, error)
	CountFn                       func(ctx context.Context, f domain.Filter) (int64, error)
}

func (m *Repo) Create(ctx context.Context, s *domain.FormSubmission) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.FormSubmission, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.FormSubmission, error) {
	if m.GetByApplicationIDForUpdateFn != nil {
		return m.GetByApplicationIDForUpdateFn(ctx, applicationID)
	}
	return nil, context.Canceled
}

func (m *Repo) FindActive(ctx context.Context, aadhaar, pan string) (*domain.FormSubmission, error) {
	if m.FindActiveFn != nil {
		return m.FindActiveFn(ctx, aadhaar, pan)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, applicationID string, from, to domain.Status, at time.Time) (bool, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, applicationID, from, to, at)
	}
	return false, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter, offset, limit int) ([]domain.FormSubmission, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f, offset, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) Count(ctx context.Context, f domain.Filter) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, f)
	}
	return 0, context.Canceled
}
