package gormrepo

import (
	"testing"
	"time"

	"udyam-verification/internal/domain/audit"
	"udyam-verification/internal/domain/otp"
	"udyam-verification/internal/domain/pan"
	"udyam-verification/internal/domain/submission"
	"udyam-verification/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with every table migrated.
// A single connection keeps all queries on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&otp.Log{}, &pan.Verification{}, &submission.FormSubmission{}, &audit.Log{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeSubmission(aadhaar, pan string, status submission.Status, createdAt time.Time) *submission.FormSubmission {
	return &submission.FormSubmission{
		ApplicationID: id.NewApplicationID(createdAt),
		Aadhaar:       aadhaar,
		Mobile:        "9876543210",
		Pan:           pan,
		PanHolderName: "JOHN DOE",
		DateOfBirth:   time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:        status,
		SubmittedAt:   createdAt,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}
