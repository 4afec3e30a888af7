package submission

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	domain "udyam-verification/internal/domain/submission"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Status returns the application and its audit history. A failed history
// lookup yields an empty history rather than an error.
func (u *Usecase) Status(ctx context.Context, applicationID string) (*StatusDTO, error) {
	s, err := u.subs.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	history := []HistoryEntry{}
	logs, err := u.audits.ListByApplicationID(ctx, applicationID)
	if err != nil {
		u.log.Warn("status history lookup failed", zap.String("applicationId", applicationID), zap.Error(err))
	}
	for _, l := range logs {
		e := HistoryEntry{Action: string(l.Action), Timestamp: l.Timestamp}
		if l.Details != "" && json.Valid([]byte(l.Details)) {
			e.Details = json.RawMessage(l.Details)
		}
		history = append(history, e)
	}

	return &StatusDTO{
		ApplicationID: s.ApplicationID,
		Status:        string(s.Status),
		ApplicantName: s.PanHolderName,
		PAN:           s.Pan,
		SubmittedAt:   s.SubmittedAt,
		ApprovedAt:    s.ApprovedAt,
		StatusHistory: history,
	}, nil
}

// List pages through submissions, newest first.
func (u *Usecase) List(ctx context.Context, in ListInput) (*ListResult, error) {
	page, limit := in.Page, in.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page > maxOffset/limit {
		page = maxOffset/limit + 1
	}
	f := domain.Filter{Status: domain.Status(strings.ToUpper(strings.TrimSpace(in.Status)))}
	if f.Status != "" && !f.Status.Valid() {
		return &ListResult{
			Submissions: []SummaryDTO{},
			Pagination:  Pagination{Page: page, Limit: limit},
		}, nil
	}

	var (
		rows  []domain.FormSubmission
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = u.subs.List(gctx, f, (page-1)*limit, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = u.subs.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]SummaryDTO, 0, len(rows))
	for _, s := range rows {
		out = append(out, SummaryDTO{
			ApplicationID: s.ApplicationID,
			PanHolderName: s.PanHolderName,
			PAN:           s.Pan,
			Mobile:        s.Mobile,
			Status:        string(s.Status),
			CreatedAt:     s.CreatedAt,
			SubmittedAt:   s.SubmittedAt,
			ApprovedAt:    s.ApprovedAt,
		})
	}
	return &ListResult{
		Submissions: out,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + int64(limit) - 1) / int64(limit),
		},
	}, nil
}

// Statistics counts submissions by status and since UTC midnight.
func (u *Usecase) Statistics(ctx context.Context) (*Statistics, error) {
	now := u.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var st Statistics
	counts := []struct {
		f   domain.Filter
		dst *int64
	}{
		{domain.Filter{}, &st.Total},
		{domain.Filter{Status: domain.StatusSubmitted}, &st.ByStatus.Submitted},
		{domain.Filter{Status: domain.StatusProcessing}, &st.ByStatus.Processing},
		{domain.Filter{Status: domain.StatusApproved}, &st.ByStatus.Approved},
		{domain.Filter{Status: domain.StatusRejected}, &st.ByStatus.Rejected},
		{domain.Filter{Since: midnight}, &st.Today},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		c := c
		g.Go(func() error {
			n, err := u.subs.Count(gctx, c.f)
			*c.dst = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st.ApprovalRate = approvalRate(st.ByStatus.Approved, st.Total)
	return &st, nil
}

// approvalRate is approved/total as a percentage with two decimals.
func approvalRate(approved, total int64) string {
	if total == 0 {
		return decimal.Zero.StringFixed(2)
	}
	return decimal.NewFromInt(approved).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		StringFixed(2)
}
