package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	plans, reschedules int
	err                error
}

func (r *recordSink) RecordPlan(PlanEvent) error {
	r.plans++
	return r.err
}

func (r *recordSink) RecordReschedule(RescheduleEvent) error {
	r.reschedules++
	return nil
}

// planOnly implements no optional recorder.
type planOnly struct{ plans int }

func (p *planOnly) RecordPlan(PlanEvent) error { p.plans++; return nil }

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &planOnly{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordPlan(PlanEvent{}); err != nil {
		t.Fatalf("record plan: %v", err)
	}
	if err := m.RecordReschedule(RescheduleEvent{}); err != nil {
		t.Fatalf("record reschedule: %v", err)
	}
	if err := m.RecordSessionStatus(StatusEvent{}); err != nil {
		t.Fatalf("record status: %v", err)
	}
	if s1.plans != 1 || s1.reschedules != 1 || s2.plans != 1 {
		t.Fatalf("events not forwarded")
	}
}

func TestMultiSinkKeepsGoingOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &planOnly{}
	err := NewMultiSink(s1, s2).RecordPlan(PlanEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s2.plans != 1 {
		t.Fatalf("second sink skipped")
	}
}
