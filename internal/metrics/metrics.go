// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service's collectors.  A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	GridRenders      prometheus.Counter
	IndexConflicts   prometheus.Counter
	DragCommits      *prometheus.CounterVec
	StaleFetches     prometheus.Counter
	Exports          *prometheus.CounterVec
	LiveClients      prometheus.Gauge
}

// New registers the collectors on reg.  Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cabins_booking_api_requests_total",
			Help: "Calls to the booking API by operation and outcome",
		}, []string{"op", "outcome"}),

		UpstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cabins_booking_api_duration_seconds",
			Help:    "Latency of booking API calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		GridRenders: f.NewCounter(prometheus.CounterOpts{
			Name: "cabins_agenda_renders_total",
			Help: "Occupancy grids rendered",
		}),

		IndexConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "cabins_agenda_index_conflicts_total",
			Help: "Overlapping active bookings found while indexing",
		}),

		DragCommits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cabins_agenda_drag_total",
			Help: "Finished drag gestures by result",
		}, []string{"result"}),

		StaleFetches: f.NewCounter(prometheus.CounterOpts{
			Name: "cabins_agenda_stale_fetches_total",
			Help: "Booking fetches discarded because a newer one committed first",
		}),

		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cabins_agenda_exports_total",
			Help: "Report downloads by format",
		}, []string{"format"}),

		LiveClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "cabins_agenda_live_clients",
			Help: "Connected agenda websocket clients",
		}),
	}
}

// ObserveUpstream records one booking API call.
func (m *Metrics) ObserveUpstream(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(op, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Rendered(conflicts int) {
	if m == nil {
		return
	}
	m.GridRenders.Inc()
	m.IndexConflicts.Add(float64(conflicts))
}

func (m *Metrics) Drag(result string) {
	if m == nil {
		return
	}
	m.DragCommits.WithLabelValues(result).Inc()
}

func (m *Metrics) StaleFetch() {
	if m == nil {
		return
	}
	m.StaleFetches.Inc()
}

func (m *Metrics) Exported(format string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(format).Inc()
}

func (m *Metrics) ClientsChanged(delta int) {
	if m == nil {
		return
	}
	m.LiveClients.Add(float64(delta))
}
