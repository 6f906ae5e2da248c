// Package metrics defines the planner events and the sink interfaces that
// record them. A MetricsSink must record plans; rescheduling and status
// changes are optional capabilities detected with type assertions. Sinks
// are built from configuration through the factory registry, and
// Config.NewSink returns a MultiSink when several are configured.
package metrics
