// Package metrics holds the Prometheus instruments for the scoreboard.
//
// Every recording method is safe on a nil *Metrics, so components can run
// without a registry (tests, tools).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "scoreboard"

const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
)

// Metrics holds the scoreboard instruments.
type Metrics struct {
	Commands          *prometheus.CounterVec
	StateVersion      prometheus.Gauge
	ActiveConnections prometheus.Gauge
	Evictions         prometheus.Counter
	Broadcasts        prometheus.Counter
	FramesRendered    prometheus.Counter
}

// New creates the instruments and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands handled by the state store, by kind and result.",
		}, []string{"kind", "result"}),
		StateVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state_version",
			Help:      "Version of the latest published snapshot.",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of registered control connections.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "evictions_total",
			Help:      "Connections dropped because a write failed or timed out.",
		}),
		Broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Snapshots fanned out to control connections.",
		}),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "display",
			Name:      "frames_rendered_total",
			Help:      "Frames painted and swapped onto the panel.",
		}),
	}

	reg.MustRegister(
		m.Commands,
		m.StateVersion,
		m.ActiveConnections,
		m.Evictions,
		m.Broadcasts,
		m.FramesRendered,
	)
	return m
}

func (m *Metrics) CommandApplied(kind string, version uint64) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(kind, ResultApplied).Inc()
	m.StateVersion.Set(float64(version))
}

func (m *Metrics) CommandRejected(kind string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(kind, ResultRejected).Inc()
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.ActiveConnections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.ActiveConnections.Dec()
}

func (m *Metrics) ConnectionEvicted() {
	if m == nil {
		return
	}
	m.Evictions.Inc()
}

func (m *Metrics) Broadcast() {
	if m == nil {
		return
	}
	m.Broadcasts.Inc()
}

func (m *Metrics) FrameRendered() {
	if m == nil {
		return
	}
	m.FramesRendered.Inc()
}
