package metrics

import (
	"fmt"

	"github.com/kilianp07/studyplan/core/factory"
)

var registry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink makes a sink type available to Config.NewSink.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return registry.Register(name, f)
}

// NewSink builds the configured sinks. "nop" entries are skipped, a single
// remaining sink is returned as is and several are fanned out through a
// MultiSink. Sinks already built are closed when a later one fails.
func (c Config) NewSink() (MetricsSink, error) {
	var built []MetricsSink
	for i, mc := range c.Sinks {
		if mc.Type == "nop" {
			continue
		}
		s, err := registry.Create(mc)
		if err != nil {
			closeSinks(built)
			return nil, fmt.Errorf("sink %d (%s): %w", i, mc.Type, err)
		}
		built = append(built, s)
	}
	switch len(built) {
	case 0:
		return NopSink{}, nil
	case 1:
		return built[0], nil
	}
	return NewMultiSink(built...), nil
}

func closeSinks(sinks []MetricsSink) {
	for _, s := range sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
