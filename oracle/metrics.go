package oracle

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oracle-feeder/voter/oracle/types"
)

// Metrics exposes tick/skip/reject counters for the diagnostic HTTP
// surface and for operator alerting.
type Metrics struct {
	ticksTotal      prometheus.Counter
	skipsTotal      *prometheus.CounterVec
	rejectionsTotal prometheus.Counter
}

// NewMetrics registers the voting loop's counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oracle_feeder",
			Name:      "ticks_total",
			Help:      "Total number of voting-loop ticks executed.",
		}),
		skipsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oracle_feeder",
			Name:      "ticks_skipped_total",
			Help:      "Total number of ticks skipped, labeled by reason.",
		}, []string{"reason"}),
		rejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oracle_feeder",
			Name:      "broadcast_rejections_total",
			Help:      "Total number of broadcasts rejected with a nonzero application code.",
		}),
	}

	reg.MustRegister(m.ticksTotal, m.skipsTotal, m.rejectionsTotal)
	return m
}

// ObserveTick records the outcome of one tick.
func (m *Metrics) ObserveTick(outcome types.Outcome) {
	m.ticksTotal.Inc()
	if outcome.Kind == types.Skip {
		m.skipsTotal.WithLabelValues(outcome.Reason).Inc()
	}
}

// ObserveRejection records a broadcast rejected with a nonzero application
// code.
func (m *Metrics) ObserveRejection() {
	m.rejectionsTotal.Inc()
}
