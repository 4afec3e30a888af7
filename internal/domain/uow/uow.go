package uow

import (
	"context"

	"udyam-verification/internal/domain/audit"
	"udyam-verification/internal/domain/submission"
)

type Repos struct {
	Submissions submission.Repository
	Audits      audit.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinSubmissionTx locks the submission row first, then passes it in.
	WithinSubmissionTx(ctx context.Context, applicationID string, fn func(r Repos, s *submission.FormSubmission) error) error
}
