package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/voice-journal/internal/core/domain"
	"github.com/kirillkom/voice-journal/internal/core/interpret"
	"github.com/kirillkom/voice-journal/internal/core/ports"
)

// AnalyzeRecordingUseCase runs the full analysis pipeline for one captured
// recording: staged artifact -> remote upload -> analysis job -> poll ->
// interpretation -> audio archival -> journal entry. All remote awaits are
// sequential; a failure at any stage marks the recording failed and
// surfaces the error unchanged.
type AnalyzeRecordingUseCase struct {
	repo        ports.RecordingRepository
	entries     ports.EntryRepository
	storage     ports.ObjectStorage
	transcriber ports.TranscriptionService
	options     domain.AnalysisOptions

	now func() time.Time
}

func NewAnalyzeRecordingUseCase(
	repo ports.RecordingRepository,
	entries ports.EntryRepository,
	storage ports.ObjectStorage,
	transcriber ports.TranscriptionService,
	options domain.AnalysisOptions,
) *AnalyzeRecordingUseCase {
	return &AnalyzeRecordingUseCase{
		repo:        repo,
		entries:     entries,
		storage:     storage,
		transcriber: transcriber,
		options:     options,
		now:         time.Now,
	}
}

func (uc *AnalyzeRecordingUseCase) ProcessByID(ctx context.Context, recordingID string) error {
	if err := uc.markStatus(ctx, recordingID, domain.StatusAnalyzing, ""); err != nil {
		return fmt.Errorf("set status=analyzing: %w", err)
	}

	if err := uc.runPipeline(ctx, recordingID); err != nil {
		if failErr := uc.markStatus(ctx, recordingID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, recordingID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	return nil
}

func (uc *AnalyzeRecordingUseCase) runPipeline(ctx context.Context, recordingID string) error {
	rec, err := uc.repo.GetByID(ctx, recordingID)
	if err != nil {
		return fmt.Errorf("fetch recording by id: %w", err)
	}

	artifact, err := uc.loadArtifact(ctx, rec)
	if err != nil {
		return err
	}

	result, err := uc.analyze(ctx, artifact)
	if err != nil {
		return err
	}

	analysis := interpret.Analysis(result)
	moods := interpret.SpeakerMoods(result)
	prompts := interpret.ReflectionPrompts(analysis)

	audioKey, err := uc.archiveAudio(ctx, artifact)
	if err != nil {
		return err
	}

	now := uc.now().UTC()
	entry := &domain.JournalEntry{
		ID:            uuid.NewString(),
		UserID:        rec.UserID,
		Timestamp:     now,
		Analysis:      analysis,
		AudioURL:      audioKey,
		Transcription: result.Text,
		SpeakerMoods:  moods,
		Prompts:       prompts,
	}
	if err := uc.entries.CreateEntry(ctx, entry); err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	return nil
}

func (uc *AnalyzeRecordingUseCase) loadArtifact(ctx context.Context, rec *domain.Recording) (domain.AudioArtifact, error) {
	f, err := uc.storage.Open(ctx, rec.StagingKey)
	if err != nil {
		return domain.AudioArtifact{}, domain.WrapError(domain.ErrStorage, "open staged artifact", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.AudioArtifact{}, domain.WrapError(domain.ErrStorage, "read staged artifact", err)
	}
	return domain.AudioArtifact{Data: data, MimeType: rec.MimeType}, nil
}

func (uc *AnalyzeRecordingUseCase) analyze(ctx context.Context, artifact domain.AudioArtifact) (*domain.TranscriptResult, error) {
	audioURL, err := uc.transcriber.Upload(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	jobID, err := uc.transcriber.Submit(ctx, audioURL, uc.options)
	if err != nil {
		return nil, fmt.Errorf("submit analysis job: %w", err)
	}

	result, err := uc.transcriber.AwaitCompletion(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("await analysis job: %w", err)
	}
	return result, nil
}

// archiveAudio writes the final audio copy under a time-derived unique key.
func (uc *AnalyzeRecordingUseCase) archiveAudio(ctx context.Context, artifact domain.AudioArtifact) (string, error) {
	key := fmt.Sprintf("voice-journal/%d.%s", uc.now().UTC().UnixMilli(), artifact.FileExt())
	if err := uc.storage.Save(ctx, key, bytes.NewReader(artifact.Data)); err != nil {
		return "", domain.WrapError(domain.ErrStorage, "archive audio", err)
	}
	return key, nil
}

func (uc *AnalyzeRecordingUseCase) markStatus(ctx context.Context, recordingID string, status domain.RecordingStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, recordingID, status, errMessage)
}
