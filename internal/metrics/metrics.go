package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/otharalodge/inquiry-relay/internal/dispatcher"
	"github.com/otharalodge/inquiry-relay/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	ChannelDelivered *prometheus.CounterVec
	ChannelFailed    *prometheus.CounterVec
	ChannelLatency   *prometheus.HistogramVec
	Dispatches       *prometheus.CounterVec
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChannelDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inquiry_channel_delivered_total",
			Help: "Total number of inquiry notifications a provider accepted.",
		}, []string{"channel"}),

		ChannelFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inquiry_channel_failed_total",
			Help: "Total number of inquiry notifications that failed on a channel (single attempt, no retry).",
		}, []string{"channel"}),

		ChannelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inquiry_channel_latency_seconds",
			Help:    "Provider call latency for delivered notifications.",
			Buckets: prometheus.DefBuckets,
		}, []string{"channel"}),

		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inquiry_dispatch_total",
			Help: "Total number of dispatches by overall outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.ChannelDelivered,
		m.ChannelFailed,
		m.ChannelLatency,
		m.Dispatches,
	)

	return m
}

// DispatcherHooks returns the callbacks expected by dispatcher.MetricHooks,
// so the dispatcher itself stays free of Prometheus imports.
func (m *Metrics) DispatcherHooks() dispatcher.MetricHooks {
	return dispatcher.MetricHooks{
		OnDelivered: func(ch domain.Channel, latency time.Duration) {
			m.ChannelDelivered.WithLabelValues(string(ch)).Inc()
			m.ChannelLatency.WithLabelValues(string(ch)).Observe(latency.Seconds())
		},
		OnFailed: func(ch domain.Channel) {
			m.ChannelFailed.WithLabelValues(string(ch)).Inc()
		},
		OnDispatch: func(o domain.OverallOutcome) {
			m.Dispatches.WithLabelValues(string(o)).Inc()
		},
	}
}
