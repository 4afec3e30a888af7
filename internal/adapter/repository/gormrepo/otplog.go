package gormrepo

import (
	"context"
	"time"

	otpDomain "udyam-verification/internal/domain/otp"

	"gorm.io/gorm"
)

type OtpLogRepository struct{ db *gorm.DB }

func NewOtpLogRepository(db *gorm.DB) *OtpLogRepository { return &OtpLogRepository{db: db} }

func (r *OtpLogRepository) Create(ctx context.Context, l *otpDomain.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *OtpLogRepository) FindVerified(ctx context.Context, aadhaar, mobile string, since time.Time) (*otpDomain.Log, error) {
	var out otpDomain.Log
	res := r.db.WithContext(ctx).
		Where("aadhaar = ? AND mobile = ? AND status = ? AND verified_at >= ?",
			aadhaar, mobile, otpDomain.LogVerified, since).
		Order("verified_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}
