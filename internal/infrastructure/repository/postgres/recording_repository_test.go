package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/voice-journal/internal/core/domain"
)

func TestRecordingGetByIDNotFoundKind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewRecordingRepository(db)
	mock.ExpectQuery("FROM recordings").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "mime_type", "staging_key", "duration_ms", "status", "error_message", "created_at", "updated_at",
		}))

	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrRecordingNotFound) {
		t.Fatalf("expected RecordingNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordingGetByIDScansNullOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewRecordingRepository(db)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "mime_type", "staging_key", "duration_ms", "status", "error_message", "created_at", "updated_at",
	}).AddRow("r-1", nil, "audio/webm", "recordings/r-1.webm", int64(42000), string(domain.StatusCaptured), "", now, now)

	mock.ExpectQuery("FROM recordings").
		WithArgs("r-1").
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), "r-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.UserID != "" {
		t.Fatalf("expected empty owner for NULL user_id, got %q", rec.UserID)
	}
	if rec.Status != domain.StatusCaptured || rec.DurationMs != 42000 {
		t.Fatalf("unexpected recording %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordingCreateAndUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewRecordingRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO recordings").
		WithArgs("r-1", "u-1", "audio/webm", "recordings/r-1.webm", int64(1000), string(domain.StatusCaptured), "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE recordings").
		WithArgs("r-1", string(domain.StatusFailed), "remote processing failed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &domain.Recording{
		ID:         "r-1",
		UserID:     "u-1",
		MimeType:   "audio/webm",
		StagingKey: "recordings/r-1.webm",
		DurationMs: 1000,
		Status:     domain.StatusCaptured,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.UpdateStatus(context.Background(), "r-1", domain.StatusFailed, "remote processing failed"); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
