package gormrepo

import (
	"context"
	"time"

	panDomain "udyam-verification/internal/domain/pan"

	"gorm.io/gorm"
)

type PanRepository struct{ db *gorm.DB }

func NewPanRepository(db *gorm.DB) *PanRepository { return &PanRepository{db: db} }

func (r *PanRepository) Create(ctx context.Context, v *panDomain.Verification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *PanRepository) LatestVerified(ctx context.Context, pan string, since time.Time) (*panDomain.Verification, error) {
	var out panDomain.Verification
	res := r.db.WithContext(ctx).
		Where("pan = ? AND status = ? AND created_at >= ?", pan, panDomain.StatusVerified, since).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *PanRepository) Latest(ctx context.Context, pan string) (*panDomain.Verification, error) {
	var out panDomain.Verification
	res := r.db.WithContext(ctx).
		Where("pan = ?", pan).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}
