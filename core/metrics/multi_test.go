package metrics

import (
	"errors"
	"testing"
)

type countingSink struct {
	runs   int
	solves int
	err    error
}

func (c *countingSink) RecordRun(RunEvent) error {
	c.runs++
	return c.err
}

func (c *countingSink) RecordSolve(SolveEvent) error {
	c.solves++
	return c.err
}

func TestMultiSinkFanout(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := NewMultiSink(a, b)

	if err := m.RecordRun(RunEvent{}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if a.runs != 1 || b.runs != 1 {
		t.Fatalf("fanout missed a sink: %d %d", a.runs, b.runs)
	}

	if err := m.RecordSolve(SolveEvent{}); err != nil {
		t.Fatalf("RecordSolve: %v", err)
	}
	if a.solves != 1 || b.solves != 1 {
		t.Fatalf("solve fanout missed a sink: %d %d", a.solves, b.solves)
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := &countingSink{err: boom}
	b := &countingSink{}
	m := NewMultiSink(a, b)

	if err := m.RecordRun(RunEvent{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if b.runs != 0 {
		t.Fatal("error must stop the fanout")
	}
}

func TestMultiSinkSkipsNonRecorders(t *testing.T) {
	m := NewMultiSink(NopSink{}, &countingSink{})
	if err := m.RecordDispatchSeries(DispatchSeriesEvent{}); err != nil {
		t.Fatalf("RecordDispatchSeries: %v", err)
	}
}
