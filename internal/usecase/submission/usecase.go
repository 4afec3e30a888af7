package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"udyam-verification/internal/domain/audit"
	"udyam-verification/internal/domain/otp"
	"udyam-verification/internal/domain/pan"
	domain "udyam-verification/internal/domain/submission"
	"udyam-verification/internal/domain/uow"
	"udyam-verification/internal/infrastructure/metrics"
	"udyam-verification/internal/scheduler"
	"udyam-verification/internal/validation"
	"udyam-verification/pkg/id"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MsgOTPMissing     = "OTP verification not found or expired"
	MsgOTPUnavailable = "Unable to verify OTP status"
	MsgPANMissing     = "PAN verification not found or expired"
	MsgPANUnavailable = "Unable to verify PAN status"
	MsgDOBMismatch    = "Date of birth does not match verified PAN data"
	MsgNameMismatch   = "Name does not match verified PAN data"
	MsgTimestamp      = "Timestamp must be a valid ISO 8601 date"
	MsgIPAddress      = "IP address is invalid"

	fieldPrefix = "formData."
)

var errStale = errors.New("submission status changed")

type Scheduler interface {
	Schedule(name string, delay time.Duration, fn scheduler.Task) error
}

type Deps struct {
	Submissions domain.Repository
	Audits      audit.Repository
	OtpLogs     otp.LogRepository
	Pans        pan.Repository
	UoW         uow.UnitOfWork
	Scheduler   Scheduler

	ProcessingDelay time.Duration
	ApprovalDelay   time.Duration

	Log     *zap.Logger
	Metrics *metrics.Metrics
}

type Usecase struct {
	subs    domain.Repository
	audits  audit.Repository
	otpLogs otp.LogRepository
	pans    pan.Repository
	uow     uow.UnitOfWork
	sched   Scheduler

	processingDelay time.Duration
	approvalDelay   time.Duration

	log *zap.Logger
	m   *metrics.Metrics
	now func() time.Time
}

func NewUsecase(d Deps) *Usecase {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		subs:            d.Submissions,
		audits:          d.Audits,
		otpLogs:         d.OtpLogs,
		pans:            d.Pans,
		uow:             d.UoW,
		sched:           d.Scheduler,
		processingDelay: d.ProcessingDelay,
		approvalDelay:   d.ApprovalDelay,
		log:             log.With(zap.String("component", "submission")),
		m:               d.Metrics,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the form, re-checks it against the persisted verification
// records and creates the application.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	now := u.now()
	if fields := validateInput(in, now); len(fields) > 0 {
		u.m.Submission("invalid")
		return nil, &ValidationError{Fields: fields}
	}

	fd := in.FormData
	fd.Aadhaar = validation.CleanAadhaar(fd.Aadhaar)
	fd.Mobile = validation.CleanMobile(fd.Mobile)
	fd.PAN = validation.FormatPAN(fd.PAN)
	dob, _ := validation.ParseDate(fd.DateOfBirth)
	fd.DateOfBirth = dob.Format(validation.DateLayout)

	if fields := u.checkIntegrity(ctx, fd, dob, now); len(fields) > 0 {
		u.m.Submission("integrity_failed")
		return nil, &IntegrityError{Fields: fields}
	}

	existing, err := u.subs.FindActive(ctx, fd.Aadhaar, fd.PAN)
	switch {
	case err == nil:
		u.m.Submission("duplicate")
		return nil, &DuplicateError{
			ApplicationID: existing.ApplicationID,
			SubmittedAt:   existing.CreatedAt,
			Status:        string(existing.Status),
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		u.log.Warn("duplicate check failed", zap.String("pan", fd.PAN), zap.Error(err))
	}

	submittedAt, _ := validation.ParseTimestamp(in.Timestamp)
	data, _ := json.Marshal(fd)
	s := &domain.FormSubmission{
		ApplicationID:  id.NewApplicationID(now),
		Aadhaar:        fd.Aadhaar,
		Mobile:         fd.Mobile,
		Pan:            fd.PAN,
		PanHolderName:  in.FormData.PanHolderName,
		DateOfBirth:    dob,
		Status:         domain.StatusSubmitted,
		SubmissionData: string(data),
		SubmittedAt:    submittedAt.UTC(),
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.subs.Create(ctx, s); err != nil {
		u.m.Submission("error")
		return nil, fmt.Errorf("create submission: %w", err)
	}
	u.m.Submission("created")

	details := map[string]string{
		"aadhaar":   fd.Aadhaar,
		"mobile":    fd.Mobile,
		"pan":       fd.PAN,
		"ipAddress": in.IPAddress,
		"userAgent": in.UserAgent,
	}
	if err := u.audits.Create(ctx, newAudit(s.ApplicationID, audit.ActionFormSubmitted, details, now)); err != nil {
		u.log.Error("audit write failed", zap.String("applicationId", s.ApplicationID), zap.Error(err))
	}

	u.scheduleProcessing(s.ApplicationID)

	return &SubmitResult{
		ApplicationID:           s.ApplicationID,
		Status:                  string(domain.StatusSubmitted),
		SubmittedAt:             s.CreatedAt,
		EstimatedProcessingTime: EstimatedProcessingTime,
	}, nil
}

func validateInput(in SubmitInput, now time.Time) map[string]string {
	fd := in.FormData
	fields := map[string]string{}
	check := func(name, value string, fn func(string) string) {
		if msg := fn(value); msg != "" {
			fields[fieldPrefix+name] = msg
		}
	}
	check("aadhaar", fd.Aadhaar, validation.ValidateAadhaar)
	check("mobile", fd.Mobile, validation.ValidateMobile)
	check("otp", fd.OTP, validation.ValidateOTP)
	check("pan", fd.PAN, validation.ValidatePAN)
	check("panHolderName", fd.PanHolderName, validation.ValidateName)
	check("dateOfBirth", fd.DateOfBirth, func(s string) string { return validation.ValidateDateOfBirthAt(s, now) })

	if in.Timestamp == "" {
		fields["timestamp"] = validation.MsgRequired
	} else if _, err := validation.ParseTimestamp(in.Timestamp); err != nil {
		fields["timestamp"] = MsgTimestamp
	}
	if in.IPAddress != "" && net.ParseIP(in.IPAddress) == nil {
		fields["ipAddress"] = MsgIPAddress
	}
	return fields
}

// checkIntegrity collects every failed cross-check. A store error fails the
// affected field closed.
func (u *Usecase) checkIntegrity(ctx context.Context, fd FormData, dob, now time.Time) map[string]string {
	fields := map[string]string{}

	_, err := u.otpLogs.FindVerified(ctx, fd.Aadhaar, fd.Mobile, now.Add(-OTPWindow))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fields["otp"] = MsgOTPMissing
	case err != nil:
		u.log.Error("otp verification lookup failed", zap.Error(err))
		fields["otp"] = MsgOTPUnavailable
	}

	v, err := u.pans.LatestVerified(ctx, fd.PAN, now.Add(-PANWindow))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fields["pan"] = MsgPANMissing
	case err != nil:
		u.log.Error("pan verification lookup failed", zap.Error(err))
		fields["pan"] = MsgPANUnavailable
	default:
		if v.DateOfBirth.UTC().Format(validation.DateLayout) != dob.Format(validation.DateLayout) {
			fields["dateOfBirth"] = MsgDOBMismatch
		}
		if validation.NormalizeName(v.PanHolderName) != validation.NormalizeName(fd.PanHolderName) {
			fields["panHolderName"] = MsgNameMismatch
		}
	}
	return fields
}

func (u *Usecase) scheduleProcessing(applicationID string) {
	u.schedule("submission-processing", applicationID, u.processingDelay, func(ctx context.Context) {
		if !u.transition(ctx, applicationID, domain.StatusSubmitted, domain.StatusProcessing, audit.ActionStatusProcessing) {
			return
		}
		u.schedule("submission-approval", applicationID, u.approvalDelay, func(ctx context.Context) {
			u.transition(ctx, applicationID, domain.StatusProcessing, domain.StatusApproved, audit.ActionStatusApproved)
		})
	})
}

func (u *Usecase) schedule(name, applicationID string, delay time.Duration, fn scheduler.Task) {
	if u.sched == nil {
		return
	}
	if err := u.sched.Schedule(name, delay, fn); err != nil {
		u.log.Warn("transition not scheduled",
			zap.String("task", name),
			zap.String("applicationId", applicationID),
			zap.Error(err))
	}
}

// transition moves the application from -> to and records the audit event in
// the same transaction. It reports whether the move happened.
func (u *Usecase) transition(ctx context.Context, applicationID string, from, to domain.Status, action audit.Action) bool {
	now := u.now()
	err := u.uow.WithinSubmissionTx(ctx, applicationID, func(r uow.Repos, s *domain.FormSubmission) error {
		if s.Status != from {
			return errStale
		}
		changed, err := r.Submissions.UpdateStatus(ctx, applicationID, from, to, now)
		if err != nil {
			return err
		}
		if !changed {
			return errStale
		}
		details := map[string]string{"from": string(from), "to": string(to)}
		return r.Audits.Create(ctx, newAudit(applicationID, action, details, now))
	})
	if err != nil {
		u.m.Transition(string(to), "failed")
		u.log.Error("status transition failed",
			zap.String("applicationId", applicationID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err))
		return false
	}
	u.m.Transition(string(to), "ok")
	u.log.Info("status transition",
		zap.String("applicationId", applicationID),
		zap.String("to", string(to)))
	return true
}

func newAudit(applicationID string, action audit.Action, details any, at time.Time) *audit.Log {
	data, _ := json.Marshal(details)
	return &audit.Log{
		EventID:       uuid.NewString(),
		ApplicationID: applicationID,
		Action:        action,
		Details:       string(data),
		Timestamp:     at,
	}
}
