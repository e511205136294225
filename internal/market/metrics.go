package market

import "github.com/prometheus/client_golang/prometheus"

// Metrics records counters for the matching engine's observable
// behavior: fills, rejections and cancellations. It does not expose
// book contents or trade ticks, so it stays clear of the "market-data
// distribution" non-goal.
type Metrics struct {
	fills      prometheus.Counter
	rejections prometheus.Counter
	cancels    prometheus.Counter
}

// NewMetrics builds a Metrics recorder and registers it against reg.
// A nil registerer produces a working, unregistered recorder, which
// is convenient for tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchbook",
			Subsystem: "market",
			Name:      "fills_total",
			Help:      "Number of fills produced by the matching loop.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchbook",
			Subsystem: "market",
			Name:      "order_rejections_total",
			Help:      "Number of orders rejected by validation.",
		}),
		cancels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchbook",
			Subsystem: "market",
			Name:      "cancels_total",
			Help:      "Number of orders cancelled.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.fills, m.rejections, m.cancels)
	}
	return m
}

func (m *Metrics) RecordFill() {
	if m == nil {
		return
	}
	m.fills.Inc()
}

func (m *Metrics) RecordRejection() {
	if m == nil {
		return
	}
	m.rejections.Inc()
}

func (m *Metrics) RecordCancel() {
	if m == nil {
		return
	}
	m.cancels.Inc()
}
