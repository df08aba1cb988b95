package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docform_uploads_total",
	Help: "Uploads labelled by outcome (success, failure, superseded, rejected)",
}, []string{"outcome"})

var activeScrollSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "docform_scroll_subscribers",
	Help: "Number of result panes connected for scroll synchronization",
})

var extractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "extraction_duration_seconds",
	Help:    "Time from upload to a transformed record.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "extraction_cache_lookups_total",
	Help: "Extraction result cache lookups labelled by result (hit, miss)",
}, []string{"result"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *HttpStatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func CountUpload(outcome string) {
	uploadsTotal.WithLabelValues(outcome).Inc()
}

func IncrementScrollSubscribers() {
	activeScrollSubscribers.Inc()
}

func DecrementScrollSubscribers() {
	activeScrollSubscribers.Dec()
}

func CountCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveDependency records the time since start against an external service.
func ObserveDependency(service string, start time.Time) {
	dependencyLatency.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

func CaptureExtractionMetrics(status string, timeElapsed time.Duration) {
	extractionDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}
