package assemblyai

import "github.com/kirillkom/voice-journal/internal/core/domain"

type transcriptRequest struct {
	AudioURL          string `json:"audio_url"`
	SentimentAnalysis bool   `json:"sentiment_analysis"`
	EntityDetection   bool   `json:"entity_detection"`
	SpeakerLabels     bool   `json:"speaker_labels"`
	AutoChapters      bool   `json:"auto_chapters"`
	IABCategories     bool   `json:"iab_categories"`
}

// transcriptPayload mirrors the job resource. Optional sections are absent
// until the job completes and may be absent even then.
type transcriptPayload struct {
	ID                       string                   `json:"id"`
	Status                   string                   `json:"status"`
	Text                     string                   `json:"text"`
	Error                    string                   `json:"error"`
	SentimentAnalysisResults []sentimentResultPayload `json:"sentiment_analysis_results"`
	IABCategoriesResult      *iabCategoriesPayload    `json:"iab_categories_result"`
	Utterances               []utterancePayload       `json:"utterances"`
}

type sentimentResultPayload struct {
	Text       string  `json:"text"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
}

type iabCategoriesPayload struct {
	Results []iabCategoryResult `json:"results"`
}

type iabCategoryResult struct {
	Label     string  `json:"label"`
	Relevance float64 `json:"relevance"`
}

type utterancePayload struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Start      int64   `json:"start"`
}

func (p *transcriptPayload) toDomain() *domain.TranscriptResult {
	result := &domain.TranscriptResult{
		ID:     p.ID,
		Status: domain.TranscriptStatus(p.Status),
		Text:   p.Text,
		Error:  p.Error,
	}

	for _, s := range p.SentimentAnalysisResults {
		result.SentimentResults = append(result.SentimentResults, domain.SentimentResult{
			Text:       s.Text,
			Sentiment:  domain.SentimentLabel(s.Sentiment),
			Confidence: s.Confidence,
			StartMs:    s.Start,
			EndMs:      s.End,
		})
	}

	if p.IABCategoriesResult != nil {
		for _, c := range p.IABCategoriesResult.Results {
			result.Categories = append(result.Categories, domain.TopicCategory{
				Label:     c.Label,
				Relevance: c.Relevance,
			})
		}
	}

	for _, u := range p.Utterances {
		result.Utterances = append(result.Utterances, domain.Utterance{
			Speaker:    u.Speaker,
			Text:       u.Text,
			Sentiment:  domain.SentimentLabel(u.Sentiment),
			Confidence: u.Confidence,
			StartMs:    u.Start,
		})
	}
	return result
}
