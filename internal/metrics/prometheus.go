// Package metrics contains middlewares and counters for metrics gathering.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP Requests total counter
var totalRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP Requests.",
	},
	[]string{"path"},
)

// HTTP Response status
var duration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_duration",
		Help: "HTTP Requests Duration",
	},
	[]string{"path"},
)

var reservationsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "booking_reservations_total",
		Help: "Appointments successfully reserved.",
	},
)

var slotConflictsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "booking_slot_conflicts_total",
		Help: "Reservations rejected because the slot was already taken.",
	},
)

var noShowSweptTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "booking_no_show_swept_total",
		Help: "Appointments marked no-show by the sweep job.",
	},
)

func init() {
	for _, collector := range []prometheus.Collector{totalRequests, duration, reservationsTotal, slotConflictsTotal, noShowSweptTotal} {
		if err := prometheus.Register(collector); err != nil {
			panic(err)
		}
	}
}

// PrometheusMiddleware instruments the given request and register metrics.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(duration.WithLabelValues(r.RequestURI))
		next.ServeHTTP(w, r)
		totalRequests.WithLabelValues(r.RequestURI).Inc()
		timer.ObserveDuration()
	})
}

// IncReservations counts a successful slot reservation.
func IncReservations() {
	reservationsTotal.Inc()
}

// IncSlotConflicts counts a reservation rejected as already taken.
func IncSlotConflicts() {
	slotConflictsTotal.Inc()
}

// AddNoShowSwept counts appointments marked no-show by a sweep run.
func AddNoShowSwept(count int) {
	noShowSweptTotal.Add(float64(count))
}
