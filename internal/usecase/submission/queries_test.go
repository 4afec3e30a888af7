package submission

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"udyam-verification/internal/domain/audit"
	domain "udyam-verification/internal/domain/submission"

	"gorm.io/gorm"
)

func TestStatus(t *testing.T) {
	f := newFixture()
	approved := testNow.Add(-time.Minute)
	f.subs.GetByApplicationIDFn = func(_ context.Context, id string) (*domain.FormSubmission, error) {
		if id != "UDYAM1" {
			return nil, gorm.ErrRecordNotFound
		}
		return &domain.FormSubmission{
			ApplicationID: id, Status: domain.StatusApproved, PanHolderName: "John Doe", Pan: "ABCDE1234F",
			SubmittedAt: testNow.Add(-time.Hour), ApprovedAt: &approved,
		}, nil
	}
	f.audits.ListByApplicationIDFn = func(context.Context, string) ([]audit.Log, error) {
		return []audit.Log{
			{Action: audit.ActionFormSubmitted, Timestamp: testNow.Add(-time.Hour), Details: `{"pan":"ABCDE1234F"}`},
			{Action: audit.ActionStatusApproved, Timestamp: approved, Details: "not json"},
		}, nil
	}

	st, err := f.uc.Status(context.Background(), "UDYAM1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.ApplicantName != "John Doe" || st.Status != "APPROVED" || st.ApprovedAt == nil {
		t.Fatalf("unexpected status: %+v", st)
	}
	if len(st.StatusHistory) != 2 || string(st.StatusHistory[0].Details) != `{"pan":"ABCDE1234F"}` || st.StatusHistory[1].Details != nil {
		t.Fatalf("unexpected history: %+v", st.StatusHistory)
	}

	if _, err := f.uc.Status(context.Background(), "UDYAM404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStatus_HistoryFailureYieldsEmptyList(t *testing.T) {
	f := newFixture()
	f.subs.GetByApplicationIDFn = func(context.Context, string) (*domain.FormSubmission, error) {
		return &domain.FormSubmission{ApplicationID: "UDYAM1", Status: domain.StatusSubmitted}, nil
	}
	f.audits.ListByApplicationIDFn = func(context.Context, string) ([]audit.Log, error) {
		return nil, errors.New("audit down")
	}
	st, err := f.uc.Status(context.Background(), "UDYAM1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.StatusHistory == nil || len(st.StatusHistory) != 0 {
		t.Fatalf("want empty non-nil history, got %#v", st.StatusHistory)
	}
}

func TestList_PagingDefaultsAndCap(t *testing.T) {
	tests := []struct {
		in                  ListInput
		wantOffset, wantLim int
		wantStatus          domain.Status
	}{
		{ListInput{}, 0, 10, ""},
		{ListInput{Page: 3, Limit: 5, Status: "approved"}, 10, 5, domain.StatusApproved},
		{ListInput{Page: -1, Limit: 1000}, 0, 100, ""},
	}
	for _, tc := range tests {
		f := newFixture()
		f.subs.ListFn = func(_ context.Context, fl domain.Filter, offset, limit int) ([]domain.FormSubmission, error) {
			if offset != tc.wantOffset || limit != tc.wantLim || fl.Status != tc.wantStatus {
				t.Fatalf("List(%+v, %d, %d), want offset %d limit %d status %q", fl, offset, limit, tc.wantOffset, tc.wantLim, tc.wantStatus)
			}
			return []domain.FormSubmission{{ApplicationID: "UDYAM1", Status: domain.StatusApproved}}, nil
		}
		f.subs.CountFn = func(context.Context, domain.Filter) (int64, error) { return 21, nil }

		res, err := f.uc.List(context.Background(), tc.in)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		wantPages := (21 + int64(tc.wantLim) - 1) / int64(tc.wantLim)
		if res.Pagination.Total != 21 || res.Pagination.Pages != wantPages || res.Pagination.Limit != tc.wantLim {
			t.Fatalf("pagination = %+v", res.Pagination)
		}
		if len(res.Submissions) != 1 || res.Submissions[0].ApplicationID != "UDYAM1" {
			t.Fatalf("submissions = %+v", res.Submissions)
		}
	}
}

func TestList_HugePageDoesNotOverflowOffset(t *testing.T) {
	f := newFixture()
	var gotOffset int
	f.subs.ListFn = func(_ context.Context, _ domain.Filter, offset, limit int) ([]domain.FormSubmission, error) {
		gotOffset = offset
		return nil, nil
	}
	f.subs.CountFn = func(context.Context, domain.Filter) (int64, error) { return 3, nil }

	res, err := f.uc.List(context.Background(), ListInput{Page: math.MaxInt, Limit: 50})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotOffset <= 0 || gotOffset > maxOffset {
		t.Fatalf("offset = %d, want within (0, %d]", gotOffset, maxOffset)
	}
	if res.Pagination.Page != maxOffset/50+1 || len(res.Submissions) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestList_UnknownStatusMatchesNothing(t *testing.T) {
	f := newFixture()
	f.subs.ListFn = func(context.Context, domain.Filter, int, int) ([]domain.FormSubmission, error) {
		t.Fatalf("List must not query for an unknown status")
		return nil, nil
	}
	f.subs.CountFn = func(context.Context, domain.Filter) (int64, error) {
		t.Fatalf("Count must not query for an unknown status")
		return 0, nil
	}

	res, err := f.uc.List(context.Background(), ListInput{Status: "pending"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Submissions == nil || len(res.Submissions) != 0 || res.Pagination.Total != 0 || res.Pagination.Page != 1 || res.Pagination.Limit != 10 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestList_Error(t *testing.T) {
	f := newFixture()
	f.subs.ListFn = func(context.Context, domain.Filter, int, int) ([]domain.FormSubmission, error) { return nil, nil }
	f.subs.CountFn = func(context.Context, domain.Filter) (int64, error) { return 0, errors.New("count failed") }
	if _, err := f.uc.List(context.Background(), ListInput{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStatistics(t *testing.T) {
	f := newFixture()
	midnight := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	f.subs.CountFn = func(_ context.Context, fl domain.Filter) (int64, error) {
		switch {
		case !fl.Since.IsZero():
			if !fl.Since.Equal(midnight) {
				t.Fatalf("today since %v", fl.Since)
			}
			return 2, nil
		case fl.Status == "":
			return 3, nil
		case fl.Status == domain.StatusApproved:
			return 1, nil
		case fl.Status == domain.StatusSubmitted:
			return 2, nil
		}
		return 0, nil
	}

	st, err := f.uc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if st.Total != 3 || st.ByStatus.Approved != 1 || st.ByStatus.Submitted != 2 || st.Today != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.ApprovalRate != "33.33" {
		t.Fatalf("ApprovalRate = %q, want 33.33", st.ApprovalRate)
	}
}

func TestApprovalRate(t *testing.T) {
	cases := []struct {
		approved, total int64
		want            string
	}{
		{0, 0, "0.00"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{5, 5, "100.00"},
		{1, 8, "12.50"},
	}
	for _, c := range cases {
		if got := approvalRate(c.approved, c.total); got != c.want {
			t.Errorf("approvalRate(%d, %d) = %q, want %q", c.approved, c.total, got, c.want)
		}
	}
}
