package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/studyplan/core/metrics"
)

// PromSink records planner events in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	sessions    *prometheus.CounterVec
	shortfall   *prometheus.CounterVec
	reschedule  *prometheus.CounterVec
	status      *prometheus.CounterVec
	utilization *prometheus.GaugeVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyplan_plans_total",
			Help: "Weekly plans generated, by validity",
		}, []string{"valid"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyplan_sessions_planned_total",
			Help: "Study sessions created by plan generation",
		}, []string{"type"}),
		shortfall: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyplan_shortfall_minutes_total",
			Help: "Required minutes that did not fit into generated plans",
		}, []string{"type"}),
		reschedule: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyplan_reschedule_minutes_total",
			Help: "Minutes of missed sessions, by reschedule outcome",
		}, []string{"outcome"}),
		status: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyplan_session_status_total",
			Help: "Session status updates",
		}, []string{"status"}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "studyplan_week_utilization_ratio",
			Help: "Share of the weekly budget used by the last plan of a user",
		}, []string{"user"}),
	}
	var err error
	if s.plans, err = register(reg, s.plans); err != nil {
		return nil, err
	}
	if s.sessions, err = register(reg, s.sessions); err != nil {
		return nil, err
	}
	if s.shortfall, err = register(reg, s.shortfall); err != nil {
		return nil, err
	}
	if s.reschedule, err = register(reg, s.reschedule); err != nil {
		return nil, err
	}
	if s.status, err = register(reg, s.status); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, s.utilization); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlan counts the plan and its sessions and shortfalls.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(strconv.FormatBool(ev.Valid)).Inc()
	for typ, n := range ev.Sessions {
		s.sessions.WithLabelValues(string(typ)).Add(float64(n))
	}
	for typ, m := range ev.ShortfallMinutes {
		if m > 0 {
			s.shortfall.WithLabelValues(string(typ)).Add(float64(m))
		}
	}
	if ev.UserID != "" {
		s.utilization.WithLabelValues(ev.UserID).Set(ev.Utilization)
	}
	return nil
}

// RecordReschedule splits the requested minutes into assigned and dropped.
func (s *PromSink) RecordReschedule(ev coremetrics.RescheduleEvent) error {
	s.reschedule.WithLabelValues("assigned").Add(float64(ev.AssignedMinutes))
	if ev.DroppedMinutes > 0 {
		s.reschedule.WithLabelValues("dropped").Add(float64(ev.DroppedMinutes))
	}
	return nil
}

// RecordSessionStatus counts status updates.
func (s *PromSink) RecordSessionStatus(ev coremetrics.StatusEvent) error {
	s.status.WithLabelValues(string(ev.Status)).Inc()
	return nil
}
