package domain

type TranscriptStatus string

const (
	TranscriptQueued     TranscriptStatus = "queued"
	TranscriptProcessing TranscriptStatus = "processing"
	TranscriptCompleted  TranscriptStatus = "completed"
	TranscriptError      TranscriptStatus = "error"
)

type SentimentLabel string

const (
	SentimentLabelPositive SentimentLabel = "POSITIVE"
	SentimentLabelNegative SentimentLabel = "NEGATIVE"
	SentimentLabelNeutral  SentimentLabel = "NEUTRAL"
)

// AnalysisOptions enumerates the remote analysis features requested per job.
type AnalysisOptions struct {
	SentimentAnalysis bool
	EntityDetection   bool
	SpeakerLabels     bool
	AutoChapters      bool
	IABCategories     bool
}

// SentimentResult is one utterance-level sentiment observation.
type SentimentResult struct {
	Text       string
	Sentiment  SentimentLabel
	Confidence float64
	StartMs    int64
	EndMs      int64
}

// TopicCategory is one category label from the remote classification,
// ordered by relevance as given by the service.
type TopicCategory struct {
	Label     string
	Relevance float64
}

// Utterance is one speaker-attributed span of the transcript.
type Utterance struct {
	Speaker    string
	Text       string
	Sentiment  SentimentLabel
	Confidence float64
	StartMs    int64
}

// TranscriptResult is the decoded terminal payload of one remote analysis
// job. Optional sections are empty when the service omits them.
type TranscriptResult struct {
	ID               string
	Status           TranscriptStatus
	Text             string
	SentimentResults []SentimentResult
	Categories       []TopicCategory
	Utterances       []Utterance
	Error            string
}
