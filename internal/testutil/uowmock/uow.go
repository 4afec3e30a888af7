package uowmock

import (
	"context"
	"errors"

	"udyam-verification/internal/domain/submission"
	"udyam-verification/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn           func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinSubmissionTxFn func(ctx context.Context, applicationID string, fn func(r uow.Repos, s *submission.FormSubmission) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinSubmissionTx(fn func(context.Context, string, func(uow.Repos, *submission.FormSubmission) error) error) *UoW {
	m.WithinSubmissionTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough returns a UoW that runs fn directly against repos, locking via
// GetByApplicationIDForUpdate for submission transactions.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinSubmissionTxFn: func(ctx context.Context, applicationID string, fn func(uow.Repos, *submission.FormSubmission) error) error {
			s, err := repos.Submissions.GetByApplicationIDForUpdate(ctx, applicationID)
			if err != nil {
				return err
			}
			return fn(repos, s)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinSubmissionTx(ctx context.Context, applicationID string, fn func(r uow.Repos, s *submission.FormSubmission) error) error {
	if m.WithinSubmissionTxFn != nil {
		return m.WithinSubmissionTxFn(ctx, applicationID, fn)
	}
	return errUnimplemented
}
