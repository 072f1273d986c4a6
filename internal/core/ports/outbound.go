package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/voice-journal/internal/core/domain"
)

// TranscriptionService is the remote speech-to-text and sentiment backend.
type TranscriptionService interface {
	Upload(ctx context.Context, artifact domain.AudioArtifact) (string, error)
	Submit(ctx context.Context, audioURL string, opts domain.AnalysisOptions) (string, error)
	AwaitCompletion(ctx context.Context, jobID string) (*domain.TranscriptResult, error)
}

// ObjectStorage stores raw audio blobs.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// RecordingRepository persists and reads recording pipeline state.
type RecordingRepository interface {
	Create(ctx context.Context, rec *domain.Recording) error
	GetByID(ctx context.Context, id string) (*domain.Recording, error)
	UpdateStatus(ctx context.Context, id string, status domain.RecordingStatus, errMessage string) error
}

// EntryRepository persists journal entries. Entries are insert-only.
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry *domain.JournalEntry) error
	ListEntries(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.JournalEntry, error)
}

// MessageQueue moves captured-recording events from the api to the worker.
type MessageQueue interface {
	PublishRecordingCaptured(ctx context.Context, recordingID string) error
	SubscribeRecordingCaptured(ctx context.Context, handler func(context.Context, string) error) error
}
