package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	recordingsStartedTotal *prometheus.CounterVec
	recordingChunksTotal   *prometheus.CounterVec
	recordingBytesTotal    *prometheus.CounterVec
	recordingsStoppedTotal *prometheus.CounterVec
	journalReadsTotal      *prometheus.CounterVec
	timelineEntries        *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vj",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vj",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vj",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	recordingsStartedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vj",
			Subsystem: "recording",
			Name:      "started_total",
			Help:      "Total capture sessions opened.",
		},
		[]string{"service", "owner"},
	)
	recordingChunksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vj",
			Subsystem: "recording",
			Name:      "chunks_total",
			Help:      "Total audio chunks accepted.",
		},
		[]string{"service"},
	)
	recordingBytesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vj",
			Subsystem: "recording",
			Name:      "bytes_total",
			Help:      "Total audio bytes accepted.",
		},
		[]string{"service"},
	)
	recordingsStoppedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vj",
			Subsystem: "recording",
			Name:      "stopped_total",
			Help:      "Total capture sessions finalized and queued for analysis.",
		},
		[]string{"service", "owner"},
	)
	journalReadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vj",
			Subsystem: "journal",
			Name:      "reads_total",
			Help:      "Total journal read requests by endpoint.",
		},
		[]string{"service", "endpoint"},
	)
	timelineEntries := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vj",
			Subsystem: "journal",
			Name:      "timeline_entries",
			Help:      "Distribution of entries per timeline response.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		recordingsStartedTotal,
		recordingChunksTotal,
		recordingBytesTotal,
		recordingsStoppedTotal,
		journalReadsTotal,
		timelineEntries,
	)

	return &HTTPServerMetrics{
		registry:               registry,
		requestTotal:           requestTotal,
		requestDuration:        requestDuration,
		requestInFlight:        requestInFlight,
		recordingsStartedTotal: recordingsStartedTotal,
		recordingChunksTotal:   recordingChunksTotal,
		recordingBytesTotal:    recordingBytesTotal,
		recordingsStoppedTotal: recordingsStoppedTotal,
		journalReadsTotal:      journalReadsTotal,
		timelineEntries:        timelineEntries,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasSuffix(path, "/chunks") && strings.HasPrefix(path, "/v1/recordings/"):
		return "/v1/recordings/{recording_id}/chunks"
	case strings.HasSuffix(path, "/stop") && strings.HasPrefix(path, "/v1/recordings/"):
		return "/v1/recordings/{recording_id}/stop"
	case strings.HasPrefix(path, "/v1/recordings/"):
		return "/v1/recordings/{recording_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordCaptureStarted(service string, owned bool) {
	m.recordingsStartedTotal.WithLabelValues(service, ownerLabel(owned)).Inc()
}

func (m *HTTPServerMetrics) RecordChunk(service string, size int) {
	m.recordingChunksTotal.WithLabelValues(service).Inc()
	if size > 0 {
		m.recordingBytesTotal.WithLabelValues(service).Add(float64(size))
	}
}

func (m *HTTPServerMetrics) RecordCaptureStopped(service string, owned bool) {
	m.recordingsStoppedTotal.WithLabelValues(service, ownerLabel(owned)).Inc()
}

func (m *HTTPServerMetrics) RecordJournalRead(service, endpoint string) {
	m.journalReadsTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordTimelineSize(service string, entries int) {
	m.timelineEntries.WithLabelValues(service).Observe(float64(entries))
}

func ownerLabel(owned bool) string {
	if owned {
		return "user"
	}
	return "anonymous"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
