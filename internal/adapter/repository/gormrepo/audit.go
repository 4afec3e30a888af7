package gormrepo

import (
	"context"

	auditDomain "udyam-verification/internal/domain/audit"

	"gorm.io/gorm"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Create(ctx context.Context, l *auditDomain.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *AuditRepository) ListByApplicationID(ctx context.Context, applicationID string) ([]auditDomain.Log, error) {
	var out []auditDomain.Log
	res := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
