package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/voice-journal/internal/core/domain"
	"github.com/kirillkom/voice-journal/internal/core/ports"
)

const defaultMimeType = "audio/webm"

type captureSession struct {
	id        string
	userID    string
	mimeType  string
	startedAt time.Time
	chunks    [][]byte
	size      int64
}

// RecordUseCase manages recording sessions: chunks accumulate in arrival
// order between Start and Stop, and Stop finalizes them into one artifact,
// stages it, and hands the recording to the analysis queue.
//
// A user holds an exclusive capture lease while a session is active; a
// second Start for the same user fails until the first session stops.
// Anonymous sessions carry no lease because they cannot be told apart.
type RecordUseCase struct {
	repo     ports.RecordingRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue
	maxBytes int64

	mu       sync.Mutex
	sessions map[string]*captureSession
	leases   map[string]string

	now func() time.Time
}

func NewRecordUseCase(
	repo ports.RecordingRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	maxRecordingBytes int64,
) *RecordUseCase {
	return &RecordUseCase{
		repo:     repo,
		storage:  storage,
		queue:    queue,
		maxBytes: maxRecordingBytes,
		sessions: make(map[string]*captureSession),
		leases:   make(map[string]string),
		now:      time.Now,
	}
}

func (uc *RecordUseCase) Start(_ context.Context, userID, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if userID != "" {
		if held, ok := uc.leases[userID]; ok {
			return "", domain.WrapError(domain.ErrDeviceUnavailable, "start recording",
				fmt.Errorf("capture lease held by session %s", held))
		}
	}

	s := &captureSession{
		id:        uuid.NewString(),
		userID:    userID,
		mimeType:  mimeType,
		startedAt: uc.now().UTC(),
	}
	uc.sessions[s.id] = s
	if userID != "" {
		uc.leases[userID] = s.id
	}
	return s.id, nil
}

func (uc *RecordUseCase) AppendChunk(_ context.Context, sessionID string, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, ok := uc.sessions[sessionID]
	if !ok {
		return domain.WrapError(domain.ErrNoActiveRecording, "append chunk",
			fmt.Errorf("unknown session %s", sessionID))
	}
	if uc.maxBytes > 0 && s.size+int64(len(chunk)) > uc.maxBytes {
		return domain.WrapError(domain.ErrInvalidInput, "append chunk",
			fmt.Errorf("recording exceeds %d bytes", uc.maxBytes))
	}

	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.chunks = append(s.chunks, buf)
	s.size += int64(len(buf))
	return nil
}

// Stop finalizes the session into an AudioArtifact, stages the audio, writes
// the recording row, and publishes the recording id for analysis. The lease
// is released before any I/O so a failed Stop never wedges the user's
// capture slot.
func (uc *RecordUseCase) Stop(ctx context.Context, sessionID string) (*domain.Recording, error) {
	uc.mu.Lock()
	s, ok := uc.sessions[sessionID]
	if ok {
		delete(uc.sessions, sessionID)
		if s.userID != "" {
			delete(uc.leases, s.userID)
		}
	}
	uc.mu.Unlock()

	if !ok {
		return nil, domain.WrapError(domain.ErrNoActiveRecording, "stop recording",
			errors.New("no recording in progress"))
	}

	artifact := domain.AudioArtifact{
		Data:     bytes.Join(s.chunks, nil),
		MimeType: s.mimeType,
	}

	now := uc.now().UTC()
	rec := &domain.Recording{
		ID:         s.id,
		UserID:     s.userID,
		MimeType:   artifact.MimeType,
		StagingKey: fmt.Sprintf("recordings/%s.%s", s.id, artifact.FileExt()),
		DurationMs: now.Sub(s.startedAt).Milliseconds(),
		Status:     domain.StatusCaptured,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.storage.Save(ctx, rec.StagingKey, bytes.NewReader(artifact.Data)); err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "stage audio artifact", err)
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "create recording", err)
	}
	if err := uc.queue.PublishRecordingCaptured(ctx, rec.ID); err != nil {
		// The session is already gone, so a recording whose captured event
		// never reached the queue would otherwise sit in captured forever.
		pubErr := fmt.Errorf("publish captured event: %w", err)
		if failErr := uc.repo.UpdateStatus(ctx, rec.ID, domain.StatusFailed, pubErr.Error()); failErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", pubErr, failErr)
		}
		return nil, pubErr
	}
	return rec, nil
}
