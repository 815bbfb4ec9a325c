// Package metrics provides the Prometheus and InfluxDB adapters for the
// core metrics sink interface.
package metrics

import (
	coremetrics "github.com/DougMackenzie/energy-optimizer/core/metrics"
)

// NewSink builds the sink stack described by the config. No configured
// backend yields a NopSink; several yield a MultiSink.
func NewSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	var sinks []coremetrics.MetricsSink
	if cfg.Prometheus {
		s, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.InfluxURL != "" {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return coremetrics.NewMultiSink(sinks...), nil
	}
}
