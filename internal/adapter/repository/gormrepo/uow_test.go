package gormrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"udyam-verification/internal/domain/audit"
	"udyam-verification/internal/domain/submission"
	"udyam-verification/internal/domain/uow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	s := makeSubmission("123456789012", "ABCDE1234F", submission.StatusSubmitted, time.Now().UTC())
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Submissions.Create(ctx, s); err != nil {
			return err
		}
		return r.Audits.Create(ctx, &audit.Log{
			EventID: uuid.NewString(), ApplicationID: s.ApplicationID,
			Action: audit.ActionFormSubmitted, Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewSubmissionRepository(db).GetByApplicationID(ctx, s.ApplicationID); err != nil {
		t.Fatalf("submission not visible after commit: %v", err)
	}
	logs, err := NewAuditRepository(db).ListByApplicationID(ctx, s.ApplicationID)
	if err != nil || len(logs) != 1 {
		t.Fatalf("audit not visible after commit: %v %v", logs, err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	boom := errors.New("boom")
	s := makeSubmission("123456789012", "ABCDE1234F", submission.StatusSubmitted, time.Now().UTC())
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Submissions.Create(ctx, s); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := NewSubmissionRepository(db).GetByApplicationID(ctx, s.ApplicationID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}

func TestGormUoW_WithinSubmissionTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	repo := NewSubmissionRepository(db)

	s := makeSubmission("123456789012", "ABCDE1234F", submission.StatusSubmitted, time.Now().UTC())
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := guow.WithinSubmissionTx(ctx, s.ApplicationID, func(r uow.Repos, locked *submission.FormSubmission) error {
		if locked.ApplicationID != s.ApplicationID {
			t.Fatalf("locked wrong row: %s", locked.ApplicationID)
		}
		_, err := r.Submissions.UpdateStatus(ctx, locked.ApplicationID, submission.StatusSubmitted, submission.StatusProcessing, time.Now().UTC())
		return err
	})
	if err != nil {
		t.Fatalf("WithinSubmissionTx: %v", err)
	}
	got, _ := repo.GetByApplicationID(ctx, s.ApplicationID)
	if got.Status != submission.StatusProcessing {
		t.Fatalf("status = %s, want PROCESSING", got.Status)
	}

	err = guow.WithinSubmissionTx(ctx, "UDYAMMISSING", func(uow.Repos, *submission.FormSubmission) error {
		t.Fatalf("fn must not run for a missing row")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
