// Package assemblyai implements the remote transcription and sentiment
// backend over its HTTP/JSON surface: staged upload, job submission, and
// sequential status polling until a terminal outcome.
package assemblyai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/voice-journal/internal/core/domain"
)

const (
	defaultPollInterval    = 5 * time.Second
	defaultMaxPollAttempts = 60
)

type Client struct {
	baseURL         string
	apiKey          string
	pollInterval    time.Duration
	maxPollAttempts int
	httpClient      *http.Client

	pollObserver func(attempts int)
}

type Options struct {
	HTTPClient *http.Client
	// PollObserver receives the number of status queries one
	// AwaitCompletion call performed, terminal or not.
	PollObserver func(attempts int)
}

func New(baseURL, apiKey string, pollInterval time.Duration, maxPollAttempts int) *Client {
	return NewWithOptions(baseURL, apiKey, pollInterval, maxPollAttempts, Options{})
}

func NewWithOptions(baseURL, apiKey string, pollInterval time.Duration, maxPollAttempts int, options Options) *Client {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if maxPollAttempts <= 0 {
		maxPollAttempts = defaultMaxPollAttempts
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		apiKey:          apiKey,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
		httpClient:      httpClient,
		pollObserver:    options.PollObserver,
	}
}

// Upload stages the artifact with the remote service: request an upload
// slot, then transfer the raw bytes to the returned URL.
func (c *Client) Upload(ctx context.Context, artifact domain.AudioArtifact) (string, error) {
	var slot struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.postJSON(ctx, "/v2/upload", nil, &slot, "request upload slot"); err != nil {
		return "", domain.WrapError(domain.ErrUpload, "request upload slot", err)
	}
	if slot.UploadURL == "" {
		return "", domain.WrapError(domain.ErrUpload, "request upload slot", errors.New("empty upload_url"))
	}

	if err := c.putBytes(ctx, slot.UploadURL, artifact.Data, "transfer audio"); err != nil {
		return "", domain.WrapError(domain.ErrUpload, "transfer audio", err)
	}
	return slot.UploadURL, nil
}

// Submit creates one analysis job for previously uploaded audio.
func (c *Client) Submit(ctx context.Context, audioURL string, opts domain.AnalysisOptions) (string, error) {
	request := transcriptRequest{
		AudioURL:          audioURL,
		SentimentAnalysis: opts.SentimentAnalysis,
		EntityDetection:   opts.EntityDetection,
		SpeakerLabels:     opts.SpeakerLabels,
		AutoChapters:      opts.AutoChapters,
		IABCategories:     opts.IABCategories,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/v2/transcript", request, &created, "submit transcript"); err != nil {
		return "", domain.WrapError(domain.ErrSubmission, "submit transcript", err)
	}
	if created.ID == "" {
		return "", domain.WrapError(domain.ErrSubmission, "submit transcript", errors.New("empty job id"))
	}
	return created.ID, nil
}

// AwaitCompletion polls the job status sequentially, one in-flight query at
// a time, until it completes, the service reports an error, the attempt
// ceiling is exhausted, or the context is cancelled. Individual polls are
// never retried.
func (c *Client) AwaitCompletion(ctx context.Context, jobID string) (*domain.TranscriptResult, error) {
	attempts := 0
	defer func() {
		if c.pollObserver != nil {
			c.pollObserver(attempts)
		}
	}()

	for attempts < c.maxPollAttempts {
		attempts++

		var payload transcriptPayload
		if err := c.getJSON(ctx, "/v2/transcript/"+jobID, &payload, "poll transcript"); err != nil {
			return nil, domain.WrapError(domain.ErrRemoteProcessing, "poll transcript", err)
		}

		switch domain.TranscriptStatus(payload.Status) {
		case domain.TranscriptCompleted:
			return payload.toDomain(), nil
		case domain.TranscriptError:
			return nil, domain.WrapError(domain.ErrRemoteProcessing, "transcript processing",
				errors.New(payload.Error))
		}

		if attempts == c.maxPollAttempts {
			break
		}
		if err := c.waitInterval(ctx); err != nil {
			return nil, err
		}
	}

	return nil, domain.WrapError(domain.ErrTimeout, "await transcript",
		fmt.Errorf("no terminal status after %d polls", c.maxPollAttempts))
}

func (c *Client) waitInterval(ctx context.Context) error {
	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
