package pan

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domain "udyam-verification/internal/domain/pan"
	"udyam-verification/internal/infrastructure/metrics"
	"udyam-verification/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Repo      domain.Repository
	Directory *Directory
	// Delay simulates the latency of the upstream registry.
	Delay   time.Duration
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

type Usecase struct {
	repo  domain.Repository
	dir   *Directory
	delay time.Duration
	log   *zap.Logger
	m     *metrics.Metrics
	now   func() time.Time
}

func NewUsecase(d Deps) *Usecase {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	dir := d.Directory
	if dir == nil {
		dir = DefaultDirectory()
	}
	return &Usecase{
		repo:  d.Repo,
		dir:   dir,
		delay: d.Delay,
		log:   log.With(zap.String("component", "pan")),
		m:     d.Metrics,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	now := u.now()
	dob, err := validation.ParseDate(in.DateOfBirth)
	if err != nil {
		return nil, domain.ErrInvalidAge
	}
	age := validation.Age(dob, now)
	if age < validation.MinAge {
		u.m.PANVerify("underage")
		return nil, domain.ErrUnderage
	}
	if age > validation.MaxAge {
		u.m.PANVerify("invalid_age")
		return nil, domain.ErrInvalidAge
	}

	pan := validation.FormatPAN(in.PAN)

	recent, err := u.repo.LatestVerified(ctx, pan, now.Add(-domain.CacheWindow))
	switch {
	case err == nil:
		u.m.PANVerify("cached")
		return &VerifyResult{PAN: recent.Pan, Name: recent.PanHolderName, VerifiedAt: recent.CreatedAt, Cached: true}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		u.log.Warn("pan cache lookup failed", zap.String("pan", pan), zap.Error(err))
	}

	if err := u.wait(ctx); err != nil {
		return nil, err
	}

	dobStr := dob.Format(validation.DateLayout)
	rec, checkErr := u.dir.Check(pan, in.Name, dobStr)

	row := &domain.Verification{
		Pan:           pan,
		PanHolderName: in.Name,
		DateOfBirth:   dob,
		CreatedAt:     now,
	}
	if checkErr != nil {
		row.Status = domain.StatusFailed
		row.ErrorMessage = checkErr.Error()
		u.record(ctx, row)
		u.m.PANVerify("failed")
		return nil, checkErr
	}

	row.Status = domain.StatusVerified
	if data, err := json.Marshal(rec); err == nil {
		row.VerificationData = string(data)
	}
	u.record(ctx, row)
	u.m.PANVerify("verified")

	return &VerifyResult{
		PAN:         rec.PAN,
		Name:        rec.Name,
		DateOfBirth: rec.DateOfBirth,
		Status:      rec.Status,
		VerifiedAt:  now,
		Age:         age,
	}, nil
}

func (u *Usecase) wait(ctx context.Context) error {
	if u.delay <= 0 {
		return nil
	}
	t := time.NewTimer(u.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (u *Usecase) record(ctx context.Context, v *domain.Verification) {
	if err := u.repo.Create(ctx, v); err != nil {
		u.log.Error("pan verification log write failed",
			zap.String("pan", v.Pan),
			zap.String("status", string(v.Status)),
			zap.Error(err))
	}
}

// Latest returns the newest recorded attempt for pan.
func (u *Usecase) Latest(ctx context.Context, pan string) (*StatusDTO, error) {
	v, err := u.repo.Latest(ctx, validation.FormatPAN(pan))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoVerification
		}
		return nil, err
	}
	dto := &StatusDTO{
		PAN:        v.Pan,
		Status:     string(v.Status),
		VerifiedAt: v.CreatedAt,
		Name:       v.PanHolderName,
	}
	if v.Status == domain.StatusFailed {
		dto.ErrorMessage = v.ErrorMessage
	}
	return dto, nil
}

func (u *Usecase) Directory() []DirectoryEntry {
	all := u.dir.All()
	out := make([]DirectoryEntry, 0, len(all))
	for _, r := range all {
		out = append(out, DirectoryEntry{PAN: r.PAN, Name: r.Name, DateOfBirth: r.DateOfBirth})
	}
	return out
}
