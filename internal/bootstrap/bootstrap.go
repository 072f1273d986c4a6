package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/voice-journal/internal/config"
	"github.com/kirillkom/voice-journal/internal/core/domain"
	"github.com/kirillkom/voice-journal/internal/core/ports"
	"github.com/kirillkom/voice-journal/internal/core/usecase"
	"github.com/kirillkom/voice-journal/internal/infrastructure/queue/nats"
	"github.com/kirillkom/voice-journal/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/voice-journal/internal/infrastructure/resilience"
	"github.com/kirillkom/voice-journal/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/voice-journal/internal/infrastructure/transcription/assemblyai"
)

type App struct {
	Config config.Config

	Queue      ports.MessageQueue
	Recordings ports.RecordingRepository
	Ingest     ports.RecordingIngestor
	Process    ports.RecordingProcessor
	Journal    ports.JournalService

	closeFn func()
}

type Options struct {
	// PollObserver receives transcript poll counts from the analysis
	// pipeline, wired to worker metrics.
	PollObserver func(attempts int)
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	return NewWithOptions(ctx, cfg, Options{})
}

func NewWithOptions(ctx context.Context, cfg config.Config, options Options) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	recordings := postgres.NewRecordingRepository(db)
	if err := recordings.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure recordings schema: %w", err)
	}
	entries := postgres.NewEntryRepository(db)
	if err := entries.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure entries schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	transcriber := assemblyai.NewWithOptions(
		cfg.AssemblyAIBaseURL,
		cfg.AssemblyAIAPIKey,
		time.Duration(cfg.TranscriptPollIntervalSecs)*time.Second,
		cfg.TranscriptPollMaxAttempts,
		assemblyai.Options{PollObserver: options.PollObserver},
	)

	analysisOptions := domain.AnalysisOptions{
		SentimentAnalysis: cfg.AnalysisSentiment,
		EntityDetection:   cfg.AnalysisEntityDetection,
		SpeakerLabels:     cfg.AnalysisSpeakerLabels,
		AutoChapters:      cfg.AnalysisAutoChapters,
		IABCategories:     cfg.AnalysisTopicCategories,
	}

	ingest := usecase.NewRecordUseCase(recordings, storage, queue, cfg.MaxRecordingBytes)
	process := usecase.NewAnalyzeRecordingUseCase(recordings, entries, storage, transcriber, analysisOptions)
	journal := usecase.NewJournalUseCase(entries)

	return &App{
		Config: cfg,

		Queue:      queue,
		Recordings: recordings,
		Ingest:     ingest,
		Process:    process,
		Journal:    journal,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
