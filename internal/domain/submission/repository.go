package submission

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s *FormSubmission) error
	GetByApplicationID(ctx context.Context, applicationID string) (*FormSubmission, error)
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*FormSubmission, error)
	// FindActive returns the newest submission for the pair whose status is in ActiveStatuses.
	FindActive(ctx context.Context, aadhaar, pan string) (*FormSubmission, error)
	// UpdateStatus moves from -> to only if the row is still in from; it reports whether a row changed.
	UpdateStatus(ctx context.Context, applicationID string, from, to Status, at time.Time) (bool, error)
	List(ctx context.Context, f Filter, offset, limit int) ([]FormSubmission, error)
	Count(ctx context.Context, f Filter) (int64, error)
}
