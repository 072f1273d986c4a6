package domain

import "time"

type RecordingStatus string

const (
	StatusCaptured  RecordingStatus = "captured"
	StatusAnalyzing RecordingStatus = "analyzing"
	StatusCompleted RecordingStatus = "completed"
	StatusFailed    RecordingStatus = "failed"
)

// Recording is the persisted lifecycle record of one captured session as it
// moves through the analysis pipeline.
type Recording struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id,omitempty"`
	MimeType   string          `json:"mime_type"`
	StagingKey string          `json:"staging_key"`
	DurationMs int64           `json:"duration_ms"`
	Status     RecordingStatus `json:"status"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AudioArtifact is the finalized audio of one recording session. It is built
// once at stop time and never mutated afterwards.
type AudioArtifact struct {
	Data     []byte
	MimeType string
}

// FileExt maps the artifact MIME type to a storage key extension.
func (a AudioArtifact) FileExt() string {
	switch a.MimeType {
	case "audio/webm":
		return "webm"
	case "audio/wav", "audio/x-wav":
		return "wav"
	case "audio/mpeg":
		return "mp3"
	case "audio/ogg":
		return "ogg"
	default:
		return "bin"
	}
}
