package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/voice-journal/internal/config"
	"github.com/kirillkom/voice-journal/internal/core/domain"
)

type ingestorFake struct {
	startedUser string
	startedMime string
	startErr    error

	chunkSession string
	chunks       [][]byte
	chunkErr     error

	stopSession string
	stopRec     *domain.Recording
	stopErr     error
}

func (f *ingestorFake) Start(_ context.Context, userID, mimeType string) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	f.startedUser = userID
	f.startedMime = mimeType
	return "session-1", nil
}

func (f *ingestorFake) AppendChunk(_ context.Context, sessionID string, chunk []byte) error {
	if f.chunkErr != nil {
		return f.chunkErr
	}
	f.chunkSession = sessionID
	f.chunks = append(f.chunks, chunk)
	return nil
}

func (f *ingestorFake) Stop(_ context.Context, sessionID string) (*domain.Recording, error) {
	f.stopSession = sessionID
	return f.stopRec, f.stopErr
}

type readerFake struct {
	rec *domain.Recording
	err error
}

func (f *readerFake) GetByID(context.Context, string) (*domain.Recording, error) {
	return f.rec, f.err
}

type journalFake struct {
	entries     []domain.JournalEntry
	entriesErr  error
	timeline    *domain.Timeline
	timelineErr error

	lastUserID string
	lastLimit  int
}

func (f *journalFake) Entries(_ context.Context, userID string, _, _ time.Time, limit int) ([]domain.JournalEntry, error) {
	f.lastUserID = userID
	f.lastLimit = limit
	return f.entries, f.entriesErr
}

func (f *journalFake) Timeline(_ context.Context, userID string, _, _ time.Time) (*domain.Timeline, error) {
	f.lastUserID = userID
	return f.timeline, f.timelineErr
}

func newTestHandler(cfg config.Config, ingest *ingestorFake, reader *readerFake, journal *journalFake) http.Handler {
	if ingest == nil {
		ingest = &ingestorFake{}
	}
	if reader == nil {
		reader = &readerFake{}
	}
	if journal == nil {
		journal = &journalFake{}
	}
	return NewRouter(cfg, ingest, reader, journal, nil).Handler()
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id header")
	}
}

func TestStartRecordingReturnsSessionID(t *testing.T) {
	ingest := &ingestorFake{}
	handler := newTestHandler(config.Config{}, ingest, nil, nil)

	body := strings.NewReader(`{"mime_type":"audio/ogg"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/recordings", body)
	req.Header.Set("X-User-Id", "user-7")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["session_id"] != "session-1" {
		t.Fatalf("expected session id in response, got %v", resp)
	}
	if ingest.startedUser != "user-7" {
		t.Fatalf("expected user id forwarded, got %q", ingest.startedUser)
	}
	if ingest.startedMime != "audio/ogg" {
		t.Fatalf("expected mime type forwarded, got %q", ingest.startedMime)
	}
}

func TestStartRecordingDefaultsMimeType(t *testing.T) {
	ingest := &ingestorFake{}
	handler := newTestHandler(config.Config{}, ingest, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.Code)
	}
	if ingest.startedMime != "audio/webm" {
		t.Fatalf("expected webm default, got %q", ingest.startedMime)
	}
}

func TestStartRecordingBusyDeviceReturns409(t *testing.T) {
	ingest := &ingestorFake{
		startErr: domain.WrapError(domain.ErrDeviceUnavailable, "start capture", errors.New("lease held")),
	}
	handler := newTestHandler(config.Config{}, ingest, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 for busy capture device, got %d", res.Code)
	}
}

func TestAppendChunkForwardsBody(t *testing.T) {
	ingest := &ingestorFake{}
	handler := newTestHandler(config.Config{}, ingest, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings/session-1/chunks", bytes.NewReader([]byte{0x1a, 0x45, 0xdf}))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", res.Code, res.Body.String())
	}
	if ingest.chunkSession != "session-1" {
		t.Fatalf("expected session id from path, got %q", ingest.chunkSession)
	}
	if len(ingest.chunks) != 1 || !bytes.Equal(ingest.chunks[0], []byte{0x1a, 0x45, 0xdf}) {
		t.Fatalf("expected raw chunk bytes forwarded, got %v", ingest.chunks)
	}
}

func TestAppendChunkEmptyBodyReturns400(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings/session-1/chunks", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty chunk, got %d", res.Code)
	}
}

func TestAppendChunkUnknownSessionReturns409(t *testing.T) {
	ingest := &ingestorFake{
		chunkErr: domain.WrapError(domain.ErrNoActiveRecording, "append chunk", errors.New("unknown session")),
	}
	handler := newTestHandler(config.Config{}, ingest, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings/ghost/chunks", strings.NewReader("xx"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unknown session, got %d", res.Code)
	}
}

func TestStopRecordingReturns202(t *testing.T) {
	ingest := &ingestorFake{
		stopRec: &domain.Recording{
			ID:         "rec-1",
			UserID:     "user-7",
			Status:     domain.StatusCaptured,
			DurationMs: 42000,
		},
	}
	handler := newTestHandler(config.Config{}, ingest, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings/session-1/stop", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	var rec domain.Recording
	if err := json.NewDecoder(res.Body).Decode(&rec); err != nil {
		t.Fatalf("decode recording: %v", err)
	}
	if rec.ID != "rec-1" || rec.Status != domain.StatusCaptured {
		t.Fatalf("unexpected recording payload: %+v", rec)
	}
	if ingest.stopSession != "session-1" {
		t.Fatalf("expected session id from path, got %q", ingest.stopSession)
	}
}

func TestGetRecordingNotFoundReturns404(t *testing.T) {
	reader := &readerFake{
		err: domain.WrapError(domain.ErrRecordingNotFound, "get recording", errors.New("no rows")),
	}
	handler := newTestHandler(config.Config{}, nil, reader, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/recordings/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestWriteEndpointsRequireAPIKeyWhenConfigured(t *testing.T) {
	handler := newTestHandler(config.Config{APIClientKey: "sekret"}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/recordings", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", res.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/v1/recordings", nil)
	req2.Header.Set("Authorization", "Bearer sekret")
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusCreated {
		t.Fatalf("expected 201 with valid token, got %d", res2.Code)
	}
}

func TestReadEndpointsSkipAPIKey(t *testing.T) {
	journal := &journalFake{}
	handler := newTestHandler(config.Config{APIClientKey: "sekret"}, nil, nil, journal)

	req := httptest.NewRequest(http.MethodGet, "/v1/entries", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected reads open without key, got %d", res.Code)
	}
}

func TestListEntriesForwardsIdentityAndLimit(t *testing.T) {
	journal := &journalFake{
		entries: []domain.JournalEntry{{ID: "e1", Transcription: "today went well"}},
	}
	handler := newTestHandler(config.Config{}, nil, nil, journal)

	req := httptest.NewRequest(http.MethodGet, "/v1/entries?limit=3", nil)
	req.Header.Set("X-User-Id", "user-7")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if journal.lastUserID != "user-7" || journal.lastLimit != 3 {
		t.Fatalf("expected identity and limit forwarded, got %q %d", journal.lastUserID, journal.lastLimit)
	}
	var resp struct {
		Entries []domain.JournalEntry `json:"entries"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].ID != "e1" {
		t.Fatalf("unexpected entries payload: %+v", resp.Entries)
	}
}

func TestListEntriesRejectsMalformedRange(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/entries?from=yesterday", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed from, got %d", res.Code)
	}
}

func TestTimelineReturnsChartSeries(t *testing.T) {
	journal := &journalFake{
		timeline: &domain.Timeline{
			Timestamps: []string{"2026-08-27", "2026-08-28"},
			Emotions: domain.EmotionSeries{
				Joy:      []float64{0.6, 0.2},
				Sadness:  []float64{0, 0.3},
				Anger:    []float64{0, 0.1},
				Fear:     []float64{0, 0},
				Surprise: []float64{0.1, 0},
			},
		},
	}
	handler := newTestHandler(config.Config{}, nil, nil, journal)

	req := httptest.NewRequest(http.MethodGet, "/v1/timeline", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var timeline domain.Timeline
	if err := json.NewDecoder(res.Body).Decode(&timeline); err != nil {
		t.Fatalf("decode timeline: %v", err)
	}
	if len(timeline.Timestamps) != 2 || len(timeline.Emotions.Joy) != 2 {
		t.Fatalf("expected aligned series, got %+v", timeline)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/entries", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}
