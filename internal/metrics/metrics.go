package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"farmequip-backoffice/internal/domain"
)

const namespace = "farmequip"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of admin API requests by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of admin API requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Count of applied status transitions by record kind and target status.",
		},
		[]string{"kind", "target"},
	)

	fetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Count of failed repository calls by source.",
		},
		[]string{"source"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Count of notifications emitted by kind.",
		},
		[]string{"kind"},
	)

	dashboard = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dashboard",
			Help:      "Last computed dashboard metrics.",
		},
		[]string{"metric"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, transitions, fetchFailures, notifications, dashboard)
	})
}

func ObserveRequest(route, method, code string, seconds float64) {
	httpRequests.WithLabelValues(route, method, code).Inc()
	httpDuration.WithLabelValues(route).Observe(seconds)
}

func IncTransition(kind, target string) {
	transitions.WithLabelValues(kind, target).Inc()
}

func IncFetchFailure(source string) {
	fetchFailures.WithLabelValues(source).Inc()
}

func IncNotification(kind domain.NotificationKind) {
	notifications.WithLabelValues(string(kind)).Inc()
}

// SetDashboard publishes the latest aggregate.
func SetDashboard(m domain.DashboardMetrics) {
	revenue, _ := m.TotalRevenue.Float64()
	dashboard.WithLabelValues("total_equipment").Set(float64(m.TotalEquipment))
	dashboard.WithLabelValues("pending_bookings").Set(float64(m.PendingBookings))
	dashboard.WithLabelValues("active_bookings").Set(float64(m.ActiveBookings))
	dashboard.WithLabelValues("total_farmers").Set(float64(m.TotalFarmers))
	dashboard.WithLabelValues("total_revenue").Set(revenue)
}
