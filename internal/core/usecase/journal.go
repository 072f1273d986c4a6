package usecase

import (
	"context"
	"time"

	"github.com/kirillkom/voice-journal/internal/core/domain"
	"github.com/kirillkom/voice-journal/internal/core/ports"
)

const (
	defaultEntryLimit  = 50
	timelineEntryLimit = 366
	timelineDateLayout = "2006-01-02"
)

// JournalUseCase serves persisted entries and shapes them into the
// multi-series timeline the chart renders.
type JournalUseCase struct {
	entries ports.EntryRepository
}

func NewJournalUseCase(entries ports.EntryRepository) *JournalUseCase {
	return &JournalUseCase{entries: entries}
}

func (uc *JournalUseCase) Entries(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultEntryLimit
	}
	return uc.entries.ListEntries(ctx, userID, from, to, limit)
}

// Timeline produces one column per entry in ascending time order, with each
// emotion as its own series.
func (uc *JournalUseCase) Timeline(ctx context.Context, userID string, from, to time.Time) (*domain.Timeline, error) {
	entries, err := uc.entries.ListEntries(ctx, userID, from, to, timelineEntryLimit)
	if err != nil {
		return nil, err
	}

	tl := &domain.Timeline{
		Timestamps: make([]string, 0, len(entries)),
		Emotions: domain.EmotionSeries{
			Joy:      make([]float64, 0, len(entries)),
			Sadness:  make([]float64, 0, len(entries)),
			Anger:    make([]float64, 0, len(entries)),
			Fear:     make([]float64, 0, len(entries)),
			Surprise: make([]float64, 0, len(entries)),
		},
	}
	for _, e := range entries {
		tl.Timestamps = append(tl.Timestamps, e.Timestamp.UTC().Format(timelineDateLayout))
		tl.Emotions.Joy = append(tl.Emotions.Joy, e.Analysis.Emotions.Joy)
		tl.Emotions.Sadness = append(tl.Emotions.Sadness, e.Analysis.Emotions.Sadness)
		tl.Emotions.Anger = append(tl.Emotions.Anger, e.Analysis.Emotions.Anger)
		tl.Emotions.Fear = append(tl.Emotions.Fear, e.Analysis.Emotions.Fear)
		tl.Emotions.Surprise = append(tl.Emotions.Surprise, e.Analysis.Emotions.Surprise)
	}
	return tl, nil
}
