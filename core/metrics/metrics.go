// Package metrics defines the observability events emitted by optimization
// runs and the sink interface adapters implement.
package metrics

import (
	"time"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

// RunEvent summarizes one completed optimization run.
type RunEvent struct {
	RunID          string
	Engine         string
	Feasible       bool
	LCOE           float64
	CoveragePct    float64
	UnservedMWh    float64
	TimelineMonths int
	BindingPrimary string
	SolveTime      time.Duration
	Time           time.Time
}

// SolveEvent captures one solver invocation inside a run.
type SolveEvent struct {
	RunID     string
	Engine    string
	Year      int
	Duration  time.Duration
	Incumbent bool
	Time      time.Time
}

// DispatchSeriesEvent carries a full dispatch schedule for time-series
// storage.
type DispatchSeriesEvent struct {
	RunID    string
	Schedule *model.DispatchSchedule
	Time     time.Time
}

// MetricsSink records run outcomes for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// SolveRecorder records per-year solver invocations.
type SolveRecorder interface {
	RecordSolve(ev SolveEvent) error
}

// DispatchSeriesRecorder persists hourly dispatch series.
type DispatchSeriesRecorder interface {
	RecordDispatchSeries(ev DispatchSeriesEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error                       { return nil }
func (NopSink) RecordSolve(SolveEvent) error                   { return nil }
func (NopSink) RecordDispatchSeries(DispatchSeriesEvent) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSolve forwards solver events to sinks that accept them.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SolveRecorder); ok {
			if err := rec.RecordSolve(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordDispatchSeries forwards dispatch series to sinks that accept them.
func (m *MultiSink) RecordDispatchSeries(ev DispatchSeriesEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DispatchSeriesRecorder); ok {
			if err := rec.RecordDispatchSeries(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Config selects and configures the metrics sinks.
type Config struct {
	Prometheus   bool   `json:"prometheus"`
	InfluxURL    string `json:"influx_url"`
	InfluxToken  string `json:"influx_token"`
	InfluxOrg    string `json:"influx_org"`
	InfluxBucket string `json:"influx_bucket"`
}
