package oracle

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/oracle-feeder/voter/oracle/types"
)

func TestMetrics_ObserveTick(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveTick(types.Done())
	m.ObserveTick(types.SkipTick("stale prices", nil))

	require.Equal(t, float64(2), testutil.ToFloat64(m.ticksTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(m.skipsTotal.WithLabelValues("stale prices")))
}

func TestMetrics_ObserveRejection(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRejection()
	m.ObserveRejection()

	require.Equal(t, float64(2), testutil.ToFloat64(m.rejectionsTotal))
}
