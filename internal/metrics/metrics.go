package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staybook/internal/domain"
)

const namespace = "staybook"

// Metrics owns a private prometheus registry with HTTP and ingestion
// pipeline collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	filesTotal       *prometheus.CounterVec
	fileDuration     *prometheus.HistogramVec
	candidatesTotal  *prometheus.CounterVec
	batchesTotal     *prometheus.CounterVec
	modelCallsTotal  *prometheus.CounterVec
	resolutionScores prometheus.Histogram
}

// New creates the collectors and registers them, along with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Total HTTP requests processed.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		requestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "in_flight_requests",
			Help: "Number of in-flight HTTP requests.",
		}),
		filesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "files_total",
			Help: "Uploaded files processed by document type and status.",
		}, []string{"type", "status"}),
		fileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "file_duration_seconds",
			Help:    "Time to extract, classify and parse one file.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"status"}),
		candidatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "candidates_total",
			Help: "Candidate reservations by terminal outcome.",
		}, []string{"outcome"}),
		batchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "batches_total",
			Help: "Batches processed by success.",
		}, []string{"success"}),
		modelCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "model", Name: "calls_total",
			Help: "Generative model calls by operation and status.",
		}, []string{"operation", "status"}),
		resolutionScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ingest", Name: "property_match_score",
			Help:    "Score of the best property match per candidate.",
			Buckets: []float64{0, 20, 40, 50, 60, 70, 80, 90, 100},
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal, m.requestDuration, m.requestInFlight,
		m.filesTotal, m.fileDuration, m.candidatesTotal, m.batchesTotal,
		m.modelCallsTotal, m.resolutionScores,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) StartRequest() {
	if m == nil {
		return
	}
	m.requestInFlight.Inc()
}

func (m *Metrics) FinishRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestInFlight.Dec()
	m.requestTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveFile records one processed file.
func (m *Metrics) ObserveFile(docType domain.DocumentType, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	if docType == "" {
		docType = domain.DocumentTypeUnknown
	}
	m.filesTotal.WithLabelValues(string(docType), status).Inc()
	m.fileDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// ObserveCandidate records the terminal outcome of one candidate.
func (m *Metrics) ObserveCandidate(outcome domain.ItemOutcome) {
	if m == nil {
		return
	}
	m.candidatesTotal.WithLabelValues(string(outcome)).Inc()
}

// ObserveBatch records a finished batch.
func (m *Metrics) ObserveBatch(success bool) {
	if m == nil {
		return
	}
	label := "false"
	if success {
		label = "true"
	}
	m.batchesTotal.WithLabelValues(label).Inc()
}

// ObserveModelCall records one generative model call.
func (m *Metrics) ObserveModelCall(operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.modelCallsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveMatchScore records the score of a property resolution attempt.
func (m *Metrics) ObserveMatchScore(score int) {
	if m == nil {
		return
	}
	m.resolutionScores.Observe(float64(score))
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
