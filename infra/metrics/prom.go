package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/DougMackenzie/energy-optimizer/core/metrics"
)

// PromSink records run outcomes in Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	lcoe     *prometheus.GaugeVec
	unserved *prometheus.GaugeVec
	latency  *prometheus.HistogramVec
}

// NewPromSink registers the run metrics on the default Prometheus
// registerer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_runs_total",
		Help: "Total number of optimization runs",
	}, []string{"engine", "feasible"})
	lcoe := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optimizer_lcoe_dollars_per_mwh",
		Help: "LCOE of the most recent run",
	}, []string{"engine"})
	unserved := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optimizer_unserved_mwh",
		Help: "Unserved energy of the most recent run",
	}, []string{"engine"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_solve_seconds",
		Help:    "Per-year solver latency",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"engine"})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(lcoe); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			lcoe = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(unserved); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			unserved = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, lcoe: lcoe, unserved: unserved, latency: latency}, nil
}

// RecordRun increments the run counter and updates the outcome gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Engine, strconv.FormatBool(ev.Feasible)).Inc()
	s.lcoe.WithLabelValues(ev.Engine).Set(ev.LCOE)
	s.unserved.WithLabelValues(ev.Engine).Set(ev.UnservedMWh)
	return nil
}

// RecordSolve observes the solver latency histogram.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.latency.WithLabelValues(ev.Engine).Observe(ev.Duration.Seconds())
	return nil
}
