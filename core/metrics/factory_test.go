package metrics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kilianp07/studyplan/core/factory"
	metrics "github.com/kilianp07/studyplan/core/metrics"
)

type closingSink struct {
	metrics.NopSink
	closed *int
}

func (s closingSink) Close() { *s.closed++ }

var closed int

func init() {
	_ = metrics.RegisterMetricsSink("closing", func(map[string]any) (metrics.MetricsSink, error) {
		return closingSink{closed: &closed}, nil
	})
	_ = metrics.RegisterMetricsSink("broken", func(map[string]any) (metrics.MetricsSink, error) {
		return nil, errors.New("unreachable")
	})
}

func sinks(types ...string) metrics.Config {
	var c metrics.Config
	for _, t := range types {
		c.Sinks = append(c.Sinks, factory.ModuleConfig{Type: t})
	}
	return c
}

func TestNewSink(t *testing.T) {
	cases := []struct {
		name  string
		cfg   metrics.Config
		check func(metrics.MetricsSink) bool
	}{
		{"empty", sinks(), func(s metrics.MetricsSink) bool { _, ok := s.(metrics.NopSink); return ok }},
		{"only nop", sinks("nop", "nop"), func(s metrics.MetricsSink) bool { _, ok := s.(metrics.NopSink); return ok }},
		{"nop beside one sink", sinks("nop", "closing"), func(s metrics.MetricsSink) bool { _, ok := s.(closingSink); return ok }},
		{"two sinks", sinks("closing", "nop", "closing"), func(s metrics.MetricsSink) bool {
			m, ok := s.(*metrics.MultiSink)
			return ok && len(m.Sinks) == 2
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := c.cfg.NewSink()
			if err != nil {
				t.Fatalf("new sink: %v", err)
			}
			if !c.check(s) {
				t.Fatalf("unexpected sink %T", s)
			}
		})
	}
}

func TestNewSinkErrors(t *testing.T) {
	if _, err := sinks("missing").NewSink(); err == nil {
		t.Fatal("expected error for unknown type")
	}

	closed = 0
	_, err := sinks("closing", "nop", "broken").NewSink()
	if err == nil || !strings.Contains(err.Error(), "sink 2 (broken)") {
		t.Fatalf("expected indexed error, got %v", err)
	}
	if closed != 1 {
		t.Fatalf("built sinks not closed: %d", closed)
	}
}

func TestConfigHasSink(t *testing.T) {
	cfg := metrics.Config{Sinks: []factory.ModuleConfig{{Type: "prometheus"}}}
	cfg.SetDefaults()
	if !cfg.HasSink("prometheus") || cfg.HasSink("influx") {
		t.Fatalf("HasSink mismatch")
	}
	if cfg.PrometheusAddr != ":9102" {
		t.Fatalf("default addr %q", cfg.PrometheusAddr)
	}
}
