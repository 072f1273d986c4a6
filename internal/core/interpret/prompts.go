package interpret

import "github.com/kirillkom/voice-journal/internal/core/domain"

const (
	promptJoy        = "What specific moments brought you the most joy during this conversation?"
	promptChallenge  = "What aspects of the discussion felt challenging or difficult?"
	promptConfidence = "What gave you confidence during this interaction?"
)

// ReflectionPrompts derives journaling questions from the emotional profile.
// Each rule fires independently; order follows rule declaration. The result
// may be empty.
func ReflectionPrompts(analysis domain.EmotionalAnalysis) []string {
	var prompts []string
	if analysis.Emotions.Joy > 0.7 {
		prompts = append(prompts, promptJoy)
	}
	if analysis.Emotions.Sadness > 0.3 {
		prompts = append(prompts, promptChallenge)
	}
	if analysis.Tone.Confident > 0.7 {
		prompts = append(prompts, promptConfidence)
	}
	return prompts
}
