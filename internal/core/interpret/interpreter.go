// Package interpret maps raw remote transcript results onto the journal's
// emotion, tone, and topic model. All functions are pure.
package interpret

import (
	"github.com/kirillkom/voice-journal/internal/core/domain"
)

const maxTopics = 5

// Analysis derives the emotional profile of one completed transcript.
func Analysis(result *domain.TranscriptResult) domain.EmotionalAnalysis {
	if result == nil {
		result = &domain.TranscriptResult{}
	}
	return domain.EmotionalAnalysis{
		Sentiment: overallSentiment(result.SentimentResults),
		Emotions:  emotionScores(result.SentimentResults),
		Topics:    topics(result.Categories),
		Tone:      toneProfile(result.SentimentResults),
	}
}

// SpeakerMoods maps each utterance onto a mood reading. Empty when the
// transcript carries no utterances.
func SpeakerMoods(result *domain.TranscriptResult) []domain.SpeakerMood {
	if result == nil || len(result.Utterances) == 0 {
		return nil
	}
	moods := make([]domain.SpeakerMood, 0, len(result.Utterances))
	for _, u := range result.Utterances {
		moods = append(moods, domain.SpeakerMood{
			SpeakerID:  u.Speaker,
			Mood:       moodFromSentiment(u.Sentiment),
			Confidence: clamp01(u.Confidence),
			StartMs:    u.StartMs,
		})
	}
	return moods
}

// emotionScores accumulates fixed increments per sentiment label. Fear has
// no increment rule; it stays at zero unless a future rule adds one. Each
// accumulator is clamped independently, so the sum may exceed 1.
func emotionScores(results []domain.SentimentResult) domain.EmotionScores {
	var scores domain.EmotionScores
	for _, r := range results {
		switch r.Sentiment {
		case domain.SentimentLabelPositive:
			scores.Joy += 0.2
		case domain.SentimentLabelNegative:
			scores.Sadness += 0.1
			scores.Anger += 0.1
		case domain.SentimentLabelNeutral:
			scores.Surprise += 0.1
		}
	}
	scores.Joy = clamp01(scores.Joy)
	scores.Sadness = clamp01(scores.Sadness)
	scores.Anger = clamp01(scores.Anger)
	scores.Fear = clamp01(scores.Fear)
	scores.Surprise = clamp01(scores.Surprise)
	return scores
}

func topics(categories []domain.TopicCategory) []string {
	if len(categories) == 0 {
		return nil
	}
	n := len(categories)
	if n > maxTopics {
		n = maxTopics
	}
	labels := make([]string, 0, n)
	for _, c := range categories[:n] {
		labels = append(labels, c.Label)
	}
	return labels
}

// toneProfile derives confidence from sentiment-confidence consistency.
// Formal and informal are fixed defaults; no acoustic signal feeds them.
func toneProfile(results []domain.SentimentResult) domain.ToneProfile {
	tone := domain.ToneProfile{
		Formal:    0.5,
		Informal:  0.5,
		Confident: 0.5,
		Tentative: 0.5,
	}
	if len(results) == 0 {
		return tone
	}

	var sum float64
	for _, r := range results {
		c := r.Confidence
		if c < 0 {
			c = -c
		}
		sum += c
	}
	tone.Confident = clamp01(sum / float64(len(results)))
	tone.Tentative = clamp01(1 - tone.Confident)
	return tone
}

// overallSentiment picks the majority label; ties keep the label that
// reached the winning count first.
func overallSentiment(results []domain.SentimentResult) domain.Sentiment {
	if len(results) == 0 {
		return domain.SentimentNeutral
	}

	counts := make(map[domain.SentimentLabel]int, 3)
	var best domain.SentimentLabel
	bestCount := 0
	for _, r := range results {
		counts[r.Sentiment]++
		if counts[r.Sentiment] > bestCount {
			bestCount = counts[r.Sentiment]
			best = r.Sentiment
		}
	}

	switch best {
	case domain.SentimentLabelPositive:
		return domain.SentimentPositive
	case domain.SentimentLabelNegative:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func moodFromSentiment(label domain.SentimentLabel) domain.Mood {
	switch label {
	case domain.SentimentLabelPositive:
		return domain.MoodEnthusiastic
	case domain.SentimentLabelNegative:
		return domain.MoodConcerned
	default:
		return domain.MoodNeutral
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
