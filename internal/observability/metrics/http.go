package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

// HTTPServerMetrics owns the api-side registry: request-level series plus
// the prediction-domain series observed from the core.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	predictionsTotal      *prometheus.CounterVec
	pipelineBuildsTotal   *prometheus.CounterVec
	pipelineBuildDuration prometheus.Histogram
	datasetRows           prometheus.Gauge
	sourceResolutions     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafe",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cafe",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cafe",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	predictionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafe",
			Subsystem: "predict",
			Name:      "predictions_total",
			Help:      "Total served predictions by scoring path and tier.",
		},
		[]string{"service", "source", "tier"},
	)
	pipelineBuildsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafe",
			Subsystem: "predict",
			Name:      "pipeline_builds_total",
			Help:      "Total pipeline training attempts by outcome.",
		},
		[]string{"service", "outcome"},
	)
	pipelineBuildDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cafe",
			Subsystem: "predict",
			Name:      "pipeline_build_duration_seconds",
			Help:      "Pipeline training duration in seconds.",
			Buckets:   prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	datasetRows := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cafe",
			Subsystem: "dataset",
			Name:      "rows",
			Help:      "Row count of the resolved survey dataset.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	sourceResolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafe",
			Subsystem: "dataset",
			Name:      "source_resolutions_total",
			Help:      "Dataset source resolution attempts by source and outcome.",
		},
		[]string{"service", "source", "outcome"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		predictionsTotal,
		pipelineBuildsTotal,
		pipelineBuildDuration,
		datasetRows,
		sourceResolutions,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		predictionsTotal:      predictionsTotal,
		pipelineBuildsTotal:   pipelineBuildsTotal,
		pipelineBuildDuration: pipelineBuildDuration,
		datasetRows:           datasetRows,
		sourceResolutions:     sourceResolutions,
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
	if strings.HasPrefix(path, "/v1/insights/") {
		return "/v1/insights/{table}"
	}
	return path
}

// PredictRecorder adapts the registry to the core's PredictObserver.
type PredictRecorder struct {
	service string
	metrics *HTTPServerMetrics
}

func (m *HTTPServerMetrics) PredictRecorder(service string) *PredictRecorder {
	return &PredictRecorder{service: service, metrics: m}
}

func (r *PredictRecorder) ObserveSourceResolution(source, outcome string) {
	r.metrics.sourceResolutions.WithLabelValues(r.service, source, outcome).Inc()
}

func (r *PredictRecorder) ObservePipelineBuild(outcome string, duration time.Duration, rows int) {
	r.metrics.pipelineBuildsTotal.WithLabelValues(r.service, outcome).Inc()
	r.metrics.pipelineBuildDuration.Observe(duration.Seconds())
	r.metrics.datasetRows.Set(float64(rows))
}

func (r *PredictRecorder) ObservePrediction(source domain.PredictionSource, tier domain.Tier) {
	r.metrics.predictionsTotal.WithLabelValues(r.service, string(source), string(tier)).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
