package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/DougMackenzie/energy-optimizer/core/metrics"
)

func TestPromSinkRecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}

	ev := coremetrics.RunEvent{
		RunID: "r1", Engine: "heuristic", Feasible: true,
		LCOE: 92.5, UnservedMWh: 0, SolveTime: time.Second, Time: time.Now(),
	}
	if err := sink.RecordRun(ev); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "optimizer_runs_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("optimizer_runs_total not registered")
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	// Re-registering on the same registry must reuse the collectors.
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
}

func TestNewSinkDefaultsToNop(t *testing.T) {
	s, err := NewSink(coremetrics.Config{})
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	if _, ok := s.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
}
