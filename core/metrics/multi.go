package metrics

import "errors"

// MultiSink fans events out to several sinks. Every sink is tried; the
// errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordPlan(ev PlanEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordPlan(ev))
	}
	return errors.Join(errs...)
}

// RecordReschedule forwards to the sinks that support it.
func (m *MultiSink) RecordReschedule(ev RescheduleEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RescheduleRecorder); ok {
			errs = append(errs, rec.RecordReschedule(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordSessionStatus forwards to the sinks that support it.
func (m *MultiSink) RecordSessionStatus(ev StatusEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(StatusRecorder); ok {
			errs = append(errs, rec.RecordSessionStatus(ev))
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks that hold resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
