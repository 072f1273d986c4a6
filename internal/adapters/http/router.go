package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/voice-journal/internal/config"
	"github.com/kirillkom/voice-journal/internal/core/domain"
	"github.com/kirillkom/voice-journal/internal/core/ports"
	"github.com/kirillkom/voice-journal/internal/observability/metrics"
)

const (
	userIDHeader    = "X-User-Id"
	defaultMimeType = "audio/webm"
	serviceName     = "api"
)

type Router struct {
	ingest     ports.RecordingIngestor
	recordings ports.RecordingReader
	journal    ports.JournalService
	metrics    *metrics.HTTPServerMetrics

	apiKey            string
	rateLimitRPS      int
	rateLimitBurst    int
	maxConcurrent     int
	backpressureWait  time.Duration
	maxRecordingBytes int64
}

func NewRouter(
	cfg config.Config,
	ingest ports.RecordingIngestor,
	recordings ports.RecordingReader,
	journal ports.JournalService,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		ingest:            ingest,
		recordings:        recordings,
		journal:           journal,
		metrics:           serverMetrics,
		apiKey:            cfg.APIClientKey,
		rateLimitRPS:      cfg.APIRateLimitRPS,
		rateLimitBurst:    cfg.APIRateLimitBurst,
		maxConcurrent:     cfg.APIMaxConcurrent,
		backpressureWait:  time.Duration(cfg.APIBackpressureWaitMS) * time.Millisecond,
		maxRecordingBytes: cfg.MaxRecordingBytes,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/recordings", rt.startRecording)
	mux.HandleFunc("/v1/recordings/", rt.recordingSubroutes)
	mux.HandleFunc("/v1/entries", rt.listEntries)
	mux.HandleFunc("/v1/timeline", rt.timeline)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxConcurrent, rt.backpressureWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) startRecording(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if !rt.authorizeWrite(w, r) {
		return
	}

	mimeType := defaultMimeType
	if r.Body != nil {
		var req struct {
			MimeType string `json:"mime_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && strings.TrimSpace(req.MimeType) != "" {
			mimeType = strings.TrimSpace(req.MimeType)
		}
	}

	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	sessionID, err := rt.ingest.Start(r.Context(), userID, mimeType)
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordCaptureStarted(serviceName, userID != "")
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sessionID})
}

func (rt *Router) recordingSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/recordings/")
	switch {
	case strings.HasSuffix(rest, "/chunks"):
		rt.appendChunk(w, r, strings.TrimSuffix(rest, "/chunks"))
	case strings.HasSuffix(rest, "/stop"):
		rt.stopRecording(w, r, strings.TrimSuffix(rest, "/stop"))
	default:
		rt.getRecording(w, r, rest)
	}
}

func (rt *Router) appendChunk(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if !rt.authorizeWrite(w, r) {
		return
	}
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}

	body := r.Body
	if rt.maxRecordingBytes > 0 {
		body = http.MaxBytesReader(w, body, rt.maxRecordingBytes)
	}
	chunk, err := io.ReadAll(body)
	if err != nil {
		rt.writeError(w, domain.WrapError(domain.ErrInvalidInput, "read chunk body", err))
		return
	}
	if len(chunk) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chunk body is empty"})
		return
	}

	if err := rt.ingest.AppendChunk(r.Context(), sessionID, chunk); err != nil {
		rt.writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordChunk(serviceName, len(chunk))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) stopRecording(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if !rt.authorizeWrite(w, r) {
		return
	}
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}

	rec, err := rt.ingest.Stop(r.Context(), sessionID)
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordCaptureStopped(serviceName, rec.UserID != "")
	}
	writeJSON(w, http.StatusAccepted, rec)
}

func (rt *Router) getRecording(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "recording id is required"})
		return
	}

	rec, err := rt.recordings.GetByID(r.Context(), id)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (rt *Router) listEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	from, to, ok := rt.parseTimeRange(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	entries, err := rt.journal.Entries(r.Context(), userID, from, to, limit)
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordJournalRead(serviceName, "entries")
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (rt *Router) timeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	from, to, ok := rt.parseTimeRange(w, r)
	if !ok {
		return
	}

	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	timeline, err := rt.journal.Timeline(r.Context(), userID, from, to)
	if err != nil {
		rt.writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordJournalRead(serviceName, "timeline")
		rt.metrics.RecordTimelineSize(serviceName, len(timeline.Timestamps))
	}
	writeJSON(w, http.StatusOK, timeline)
}

func (rt *Router) parseTimeRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var from, to time.Time

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from must be RFC 3339"})
			return from, to, false
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "to must be RFC 3339"})
			return from, to, false
		}
		to = parsed
	}
	return from, to, true
}

func (rt *Router) authorizeWrite(w http.ResponseWriter, r *http.Request) bool {
	if rt.apiKey == "" {
		return true
	}
	if isAuthorizedBearerHeader(r.Header.Get("Authorization"), rt.apiKey) {
		return true
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	return false
}

func isAuthorizedBearerHeader(headerValue, expectedToken string) bool {
	headerValue = strings.TrimSpace(headerValue)
	if headerValue == "" || expectedToken == "" {
		return false
	}
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(headerValue, bearerPrefix))
	return token == expectedToken
}

func (rt *Router) writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
