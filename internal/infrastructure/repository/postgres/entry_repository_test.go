package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/voice-journal/internal/core/domain"
)

func TestCreateEntrySerializesAnalysis(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewEntryRepository(db)
	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs(
			"e-1",
			"u-1",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"voice-journal/1754040000000.webm",
			"hello",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &domain.JournalEntry{
		ID:            "e-1",
		UserID:        "u-1",
		Timestamp:     time.Now().UTC(),
		Analysis:      domain.EmotionalAnalysis{Sentiment: domain.SentimentPositive},
		AudioURL:      "voice-journal/1754040000000.webm",
		Transcription: "hello",
	}
	if err := repo.CreateEntry(context.Background(), entry); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateEntryStoresNullOwnerWhenUnauthenticated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewEntryRepository(db)
	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs(
			"e-2",
			nil,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &domain.JournalEntry{ID: "e-2", Timestamp: time.Now().UTC()}
	if err := repo.CreateEntry(context.Background(), entry); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateEntryWrapsBackendRejection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewEntryRepository(db)
	mock.ExpectExec("INSERT INTO journal_entries").
		WillReturnError(errors.New("connection refused"))

	err = repo.CreateEntry(context.Background(), &domain.JournalEntry{ID: "e-3"})
	if !domain.IsKind(err, domain.ErrPersistence) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListEntriesDecodesJSONColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewEntryRepository(db)
	ts := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "entry_timestamp", "analysis", "audio_url", "transcription", "speaker_moods", "prompts",
	}).AddRow(
		"e-1", "u-1", ts,
		[]byte(`{"sentiment":"positive","emotions":{"joy":0.6,"sadness":0,"anger":0,"fear":0,"surprise":0.1},"topics":["Hobbies"],"tone":{"formal":0.5,"informal":0.5,"confident":0.9,"tentative":0.1}}`),
		"voice-journal/1.webm", "hello",
		[]byte(`[{"speaker_id":"A","mood":"enthusiastic","confidence":0.9,"timestamp_ms":0}]`),
		[]byte(`["p1"]`),
	)

	mock.ExpectQuery("FROM journal_entries").
		WithArgs("u-1", sqlmock.AnyArg(), sqlmock.AnyArg(), 10).
		WillReturnRows(rows)

	entries, err := repo.ListEntries(context.Background(), "u-1", time.Time{}, ts, 10)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Analysis.Emotions.Joy != 0.6 || got.Analysis.Sentiment != domain.SentimentPositive {
		t.Fatalf("analysis not decoded: %+v", got.Analysis)
	}
	if len(got.SpeakerMoods) != 1 || got.SpeakerMoods[0].Mood != domain.MoodEnthusiastic {
		t.Fatalf("speaker moods not decoded: %+v", got.SpeakerMoods)
	}
	if len(got.Prompts) != 1 || got.Prompts[0] != "p1" {
		t.Fatalf("prompts not decoded: %+v", got.Prompts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListEntriesAnonymousFiltersNullOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewEntryRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "entry_timestamp", "analysis", "audio_url", "transcription", "speaker_moods", "prompts",
	})
	mock.ExpectQuery("user_id IS NULL").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 50).
		WillReturnRows(rows)

	if _, err := repo.ListEntries(context.Background(), "", time.Time{}, time.Now(), 0); err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
