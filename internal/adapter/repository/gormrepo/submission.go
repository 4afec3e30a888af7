package gormrepo

import (
	"context"
	"time"

	submissionDomain "udyam-verification/internal/domain/submission"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct{ db *gorm.DB }

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *submissionDomain.FormSubmission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) GetByApplicationID(ctx context.Context, applicationID string) (*submissionDomain.FormSubmission, error) {
	var out submissionDomain.FormSubmission
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*submissionDomain.FormSubmission, error) {
	var out submissionDomain.FormSubmission
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", applicationID).
		First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) FindActive(ctx context.Context, aadhaar, pan string) (*submissionDomain.FormSubmission, error) {
	var out submissionDomain.FormSubmission
	res := r.db.WithContext(ctx).
		Where("aadhaar = ? AND pan = ? AND status IN ?", aadhaar, pan, submissionDomain.ActiveStatuses).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *SubmissionRepository) UpdateStatus(ctx context.Context, applicationID string, from, to submissionDomain.Status, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	if to == submissionDomain.StatusApproved {
		updates["approved_at"] = at
	}
	res := r.db.WithContext(ctx).
		Model(&submissionDomain.FormSubmission{}).
		Where("application_id = ? AND status = ?", applicationID, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *SubmissionRepository) List(ctx context.Context, f submissionDomain.Filter, offset, limit int) ([]submissionDomain.FormSubmission, error) {
	var out []submissionDomain.FormSubmission
	res := r.filtered(ctx, f).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *SubmissionRepository) Count(ctx context.Context, f submissionDomain.Filter) (int64, error) {
	var n int64
	res := r.filtered(ctx, f).Model(&submissionDomain.FormSubmission{}).Count(&n)
	return n, res.Error
}

func (r *SubmissionRepository) filtered(ctx context.Context, f submissionDomain.Filter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	return q
}
