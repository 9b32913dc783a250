// Package metrics exposes Prometheus request metrics for the respkit server.
package metrics

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Recorder collects per-request metrics into a private registry
type Recorder struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	respSize *prometheus.CounterVec
}

// NewRecorder creates a new metrics recorder
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "respkit_requests_total",
			Help: "Total number of HTTP requests handled",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "respkit_request_duration_seconds",
			Help:    "Request handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		respSize: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "respkit_response_bytes_total",
			Help: "Total number of response body bytes written",
		}, []string{"path"}),
	}

	startTime := time.Now()
	uptime := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "respkit_uptime_seconds",
		Help: "Time since the server started",
	}, func() float64 {
		return time.Since(startTime).Seconds()
	})

	r.registry.MustRegister(r.requests, r.duration, r.respSize, uptime)

	return r
}

// ObserveRequest records one handled request
func (r *Recorder) ObserveRequest(method, path string, status int, respBytes int64, elapsed time.Duration) {
	r.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
	r.respSize.WithLabelValues(path).Add(float64(respBytes))
}

// Handler returns the /metrics endpoint for the recorder's registry
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Snapshot renders the current metrics in the Prometheus text format
func (r *Recorder) Snapshot() (string, error) {
	mfs, err := r.registry.Gather()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
