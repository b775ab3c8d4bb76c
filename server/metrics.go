package server

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the connection-count and command-dispatch instrumentation
// exposed for scraping. Observability does not change wire behavior; a
// Server built without WithMetrics simply skips recording.
type Metrics struct {
	connections prometheus.Gauge
	commands    *prometheus.CounterVec
}

// NewMetrics builds and registers the metrics against reg (typically
// prometheus.DefaultRegisterer).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pgshim_active_connections",
			Help: "Number of currently open client connections.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pgshim_commands_total",
			Help: "Number of dispatched wire protocol commands, by tag.",
		}, []string{"tag"}),
	}

	reg.MustRegister(m.connections, m.commands)
	return m
}

func (m *Metrics) ConnectionOpened() { m.connections.Inc() }
func (m *Metrics) ConnectionClosed() { m.connections.Dec() }

func (m *Metrics) CommandDispatched(tag string) { m.commands.WithLabelValues(tag).Inc() }
