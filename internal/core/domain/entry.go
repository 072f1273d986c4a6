package domain

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type Mood string

const (
	MoodEnthusiastic Mood = "enthusiastic"
	MoodConcerned    Mood = "concerned"
	MoodNeutral      Mood = "neutral"
)

// EmotionScores holds per-emotion intensity, each in [0,1]. The categories
// are independent accumulators and are not normalized against each other.
type EmotionScores struct {
	Joy      float64 `json:"joy"`
	Sadness  float64 `json:"sadness"`
	Anger    float64 `json:"anger"`
	Fear     float64 `json:"fear"`
	Surprise float64 `json:"surprise"`
}

// ToneProfile holds tone dimensions, each in [0,1]. Confident and tentative
// are complementary by construction; formal and informal are fixed defaults.
type ToneProfile struct {
	Formal    float64 `json:"formal"`
	Informal  float64 `json:"informal"`
	Confident float64 `json:"confident"`
	Tentative float64 `json:"tentative"`
}

type EmotionalAnalysis struct {
	Sentiment Sentiment     `json:"sentiment"`
	Emotions  EmotionScores `json:"emotions"`
	Topics    []string      `json:"topics"`
	Tone      ToneProfile   `json:"tone"`
}

// SpeakerMood is the per-utterance mood reading for one speaker.
type SpeakerMood struct {
	SpeakerID  string  `json:"speaker_id"`
	Mood       Mood    `json:"mood"`
	Confidence float64 `json:"confidence"`
	StartMs    int64   `json:"timestamp_ms"`
}

// JournalEntry is one persisted journal record. Entries are written once per
// completed analysis and never mutated.
type JournalEntry struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	Analysis      EmotionalAnalysis `json:"analysis"`
	AudioURL      string            `json:"audio_url"`
	Transcription string            `json:"transcription"`
	SpeakerMoods  []SpeakerMood     `json:"speaker_moods,omitempty"`
	Prompts       []string          `json:"prompts,omitempty"`
}

// EmotionSeries is the chart-ready view of one emotion across entries.
type EmotionSeries struct {
	Joy      []float64 `json:"joy"`
	Sadness  []float64 `json:"sadness"`
	Anger    []float64 `json:"anger"`
	Fear     []float64 `json:"fear"`
	Surprise []float64 `json:"surprise"`
}

// Timeline is the multi-series payload the emotional timeline chart renders:
// one column per entry, ascending by time.
type Timeline struct {
	Timestamps []string      `json:"timestamps"`
	Emotions   EmotionSeries `json:"emotions"`
}
