package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	domain "udyam-verification/internal/domain/otp"
	"udyam-verification/internal/infrastructure/metrics"
	"udyam-verification/internal/scheduler"
	"udyam-verification/internal/validation"

	"go.uber.org/zap"
)

// Limiter records an issuance for key if the rolling window still has room.
type Limiter interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, error)
}

type Scheduler interface {
	Schedule(name string, delay time.Duration, fn scheduler.Task) error
}

type Deps struct {
	Store     *Store
	Limiter   Limiter
	Logs      domain.LogRepository
	Sender    Sender
	Scheduler Scheduler
	Log       *zap.Logger
	Metrics   *metrics.Metrics
}

type Usecase struct {
	store   *Store
	limiter Limiter
	logs    domain.LogRepository
	sender  Sender
	sched   Scheduler
	log     *zap.Logger
	m       *metrics.Metrics
	now     func() time.Time
}

func NewUsecase(d Deps) *Usecase {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	store := d.Store
	if store == nil {
		store = NewStore()
	}
	return &Usecase{
		store:   store,
		limiter: d.Limiter,
		logs:    d.Logs,
		sender:  d.Sender,
		sched:   d.Scheduler,
		log:     log.With(zap.String("component", "otp")),
		m:       d.Metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueResult, error) {
	aadhaar := validation.CleanAadhaar(in.Aadhaar)
	mobile := validation.CleanMobile(in.Mobile)
	now := u.now()

	var code string
	var expires time.Time
	err := u.store.Update(domain.Key(aadhaar, mobile), func(cur *domain.Record) (*domain.Record, error) {
		ok, err := u.limiter.Allow(ctx, mobile, now)
		if err != nil {
			return cur, fmt.Errorf("rate limit check: %w", err)
		}
		if !ok {
			return cur, domain.ErrRateLimited
		}
		c, err := generateCode()
		if err != nil {
			return cur, err
		}
		code, expires = c, now.Add(domain.CodeTTL)
		return &domain.Record{
			Code:             c,
			Aadhaar:          aadhaar,
			Mobile:           mobile,
			EntrepreneurName: in.EntrepreneurName,
			CreatedAt:        now,
			ExpiresAt:        expires,
		}, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			u.m.OTPIssue("rate_limited")
		} else {
			u.m.OTPIssue("error")
		}
		return nil, err
	}
	u.m.OTPIssue("sent")

	u.dispatch(mobile, code)
	u.appendLog(ctx, &domain.Log{
		Aadhaar:    aadhaar,
		Mobile:     mobile,
		OtpHash:    hashCode(code),
		Status:     domain.LogSent,
		ExpiryTime: expires,
		CreatedAt:  now,
	})

	return &IssueResult{Mobile: mobile, ExpiresAt: expires}, nil
}

func (u *Usecase) dispatch(mobile, code string) {
	if u.sender == nil || u.sched == nil {
		return
	}
	err := u.sched.Schedule("otp-sms", 0, func(ctx context.Context) {
		if err := u.sender.Send(ctx, mobile, code); err != nil {
			u.log.Warn("sms dispatch failed", zap.String("mobile", mobile), zap.Error(err))
		}
	})
	if err != nil {
		u.log.Warn("sms not scheduled", zap.String("mobile", mobile), zap.Error(err))
	}
}

func (u *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	aadhaar := validation.CleanAadhaar(in.Aadhaar)
	mobile := validation.CleanMobile(in.Mobile)
	now := u.now()

	var expiresAt time.Time
	err := u.store.Update(domain.Key(aadhaar, mobile), func(cur *domain.Record) (*domain.Record, error) {
		switch cur.State(now) {
		case domain.StateNone:
			return nil, domain.ErrNotFound
		case domain.StateExpired:
			return nil, domain.ErrExpired
		case domain.StateVerified:
			return cur, domain.ErrAlreadyVerified
		case domain.StateLocked:
			return nil, domain.ErrAttemptsExceeded
		}
		expiresAt = cur.ExpiresAt
		if subtle.ConstantTimeCompare([]byte(cur.Code), []byte(in.Code)) != 1 {
			cur.Attempts++
			return cur, &domain.InvalidCodeError{Remaining: domain.MaxAttempts - cur.Attempts}
		}
		cur.Verified = true
		return cur, nil
	})
	if err != nil {
		u.m.OTPVerify(resultLabel(err))
		return nil, err
	}
	u.m.OTPVerify("verified")

	u.appendLog(ctx, &domain.Log{
		Aadhaar:    aadhaar,
		Mobile:     mobile,
		Status:     domain.LogVerified,
		ExpiryTime: expiresAt,
		VerifiedAt: &now,
		CreatedAt:  now,
	})
	return &VerifyResult{Aadhaar: aadhaar, Mobile: mobile, VerifiedAt: now}, nil
}

// Status reports the record without mutating it; an expired record is
// reported as such until it is purged or re-issued.
func (u *Usecase) Status(_ context.Context, aadhaar, mobile string) (*StatusDTO, error) {
	rec := u.store.Get(domain.Key(validation.CleanAadhaar(aadhaar), validation.CleanMobile(mobile)))
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return &StatusDTO{
		Exists:     true,
		Expired:    rec.Expired(u.now()),
		Verified:   rec.Verified,
		Attempts:   rec.Attempts,
		ExpiryTime: rec.ExpiresAt,
	}, nil
}

// Purge drops expired records; it is run periodically.
func (u *Usecase) Purge(now time.Time) int {
	n := u.store.Purge(now)
	if n > 0 {
		u.log.Debug("purged expired otps", zap.Int("count", n))
	}
	return n
}

// appendLog persists an audit row. The in-memory record is already committed,
// so a failure here is logged and the two stores may diverge.
func (u *Usecase) appendLog(ctx context.Context, l *domain.Log) {
	if u.logs == nil {
		return
	}
	if err := u.logs.Create(ctx, l); err != nil {
		u.log.Error("otp log write failed",
			zap.String("status", string(l.Status)),
			zap.String("mobile", l.Mobile),
			zap.Error(err))
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrExpired):
		return "expired"
	case errors.Is(err, domain.ErrAlreadyVerified):
		return "already_verified"
	case errors.Is(err, domain.ErrAttemptsExceeded):
		return "attempts_exceeded"
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid_code"
	}
	return "error"
}

var codeSpan = big.NewInt(900000)

// generateCode returns a uniform code in 100000..999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
