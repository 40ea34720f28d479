// Package metrics exposes the Prometheus counters and HTTP latency histogram
// of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry            *prometheus.Registry
	purchasesCreated    *prometheus.CounterVec
	settlementsRecorded prometheus.Counter
	splitFailures       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		purchasesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealsplit_purchases_created_total",
			Help: "Purchases created by split mode",
		}, []string{"split_mode"}),
		settlementsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "mealsplit_settlements_recorded_total",
			Help: "Settlements recorded",
		}),
		splitFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealsplit_split_validation_failures_total",
			Help: "Rejected purchase splits by failure kind",
		}, []string{"kind"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mealsplit_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

// PurchaseCreated counts a committed purchase
func (m *Metrics) PurchaseCreated(mode string) {
	if m == nil {
		return
	}
	m.purchasesCreated.WithLabelValues(mode).Inc()
}

// SettlementRecorded counts a committed settlement
func (m *Metrics) SettlementRecorded() {
	if m == nil {
		return
	}
	m.settlementsRecorded.Inc()
}

// SplitRejected counts a split validation failure
func (m *Metrics) SplitRejected(kind string) {
	if m == nil {
		return
	}
	m.splitFailures.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware observes request latency. The route label is the matched chi
// pattern so path ids do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
