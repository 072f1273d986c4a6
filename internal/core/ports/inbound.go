package ports

import (
	"context"
	"time"

	"github.com/kirillkom/voice-journal/internal/core/domain"
)

// RecordingIngestor is the inbound contract for recording session capture.
type RecordingIngestor interface {
	Start(ctx context.Context, userID, mimeType string) (string, error)
	AppendChunk(ctx context.Context, sessionID string, chunk []byte) error
	Stop(ctx context.Context, sessionID string) (*domain.Recording, error)
}

// RecordingReader is the inbound read model for recording pipeline state.
type RecordingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Recording, error)
}

// RecordingProcessor is the inbound contract for asynchronous analysis.
type RecordingProcessor interface {
	ProcessByID(ctx context.Context, recordingID string) error
}

// JournalService serves persisted entries and chart-shaped timelines.
type JournalService interface {
	Entries(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.JournalEntry, error)
	Timeline(ctx context.Context, userID string, from, to time.Time) (*domain.Timeline, error)
}
