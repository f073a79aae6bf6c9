package metrics

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder instruments outbound calls to the authority. It owns a private
// registry so tests can run many recorders side by side.
type Recorder struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	reloadTotal     *prometheus.CounterVec
	notifyDropped   prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
}

// NewRecorder registers the client collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "authority_request_duration_seconds",
		Help:    "Duration of requests issued to the authority",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authority_requests_total",
		Help: "Total requests issued to the authority",
	}, []string{"operation", "status"})

	reloadTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "view_reloads_total",
		Help: "Authoritative re-reads triggered by mutations or navigation",
	}, []string{"view"})

	notifyDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Notifications dropped because the feed backlog was full",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, reloadTotal, notifyDropped, goroutines)

	return &Recorder{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		reloadTotal:     reloadTotal,
		notifyDropped:   notifyDropped,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// ObserveRequest records one authority round trip. Transport failures carry
// status 0.
func (r *Recorder) ObserveRequest(operation string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	label := fmt.Sprintf("%d", status)
	r.requestDuration.WithLabelValues(operation, label).Observe(duration.Seconds())
	r.requestTotal.WithLabelValues(operation, label).Inc()
	atomic.AddUint64(&r.requestCount, 1)
	atomic.AddUint64(&r.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveReload counts an authoritative re-read of the named view.
func (r *Recorder) ObserveReload(view string) {
	if r == nil {
		return
	}
	r.reloadTotal.WithLabelValues(view).Inc()
}

// ObserveDroppedNotification counts a message lost to backlog pressure.
func (r *Recorder) ObserveDroppedNotification() {
	if r == nil {
		return
	}
	r.notifyDropped.Inc()
}

// Snapshot reports simple aggregates for diagnostics output.
func (r *Recorder) Snapshot() (requests uint64, avg time.Duration) {
	if r == nil {
		return 0, 0
	}
	requests = atomic.LoadUint64(&r.requestCount)
	if requests == 0 {
		return 0, 0
	}
	total := atomic.LoadUint64(&r.requestDurationTotal)
	return requests, time.Duration(total / requests)
}

// Serve exposes the registry on addr until the server fails. Callers run it
// in a goroutine; errors are returned for logging.
func (r *Recorder) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
