package metrics

import (
	"time"

	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/scheduler"
)

// PlanEvent summarizes one generated weekly plan.
type PlanEvent struct {
	UserID    string
	WeekStart time.Time
	// Sessions and ScheduledMinutes are keyed by session type.
	Sessions         map[model.SessionType]int
	ScheduledMinutes map[model.SessionType]int
	ShortfallMinutes map[model.SessionType]int
	BudgetMinutes    int
	Utilization      float64
	Valid            bool
	Time             time.Time
}

// MetricsSink records planner events for observability purposes.
type MetricsSink interface {
	RecordPlan(ev PlanEvent) error
}

// RescheduleEvent captures the outcome of redistributing a missed session.
type RescheduleEvent struct {
	UserID           string
	SessionID        string
	Type             model.SessionType
	RequestedMinutes int
	AssignedMinutes  int
	DroppedMinutes   int
	Sessions         int
	Time             time.Time
}

// RescheduleRecorder records reschedule outcomes.
type RescheduleRecorder interface {
	RecordReschedule(ev RescheduleEvent) error
}

// StatusEvent is a session status transition.
type StatusEvent struct {
	UserID    string
	SessionID string
	Type      model.SessionType
	Status    model.SessionStatus
	Duration  int
	Time      time.Time
}

// StatusRecorder records session status changes.
type StatusRecorder interface {
	RecordSessionStatus(ev StatusEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error             { return nil }
func (NopSink) RecordReschedule(RescheduleEvent) error { return nil }
func (NopSink) RecordSessionStatus(StatusEvent) error  { return nil }

// NewPlanEvent builds the event for plan.
func NewPlanEvent(userID string, plan *scheduler.Plan, at time.Time) PlanEvent {
	ev := PlanEvent{
		UserID:           userID,
		WeekStart:        plan.Schedule.Start,
		Sessions:         map[model.SessionType]int{},
		ScheduledMinutes: map[model.SessionType]int{},
		ShortfallMinutes: map[model.SessionType]int{},
		BudgetMinutes:    plan.BudgetMinutes,
		Valid:            plan.Report.IsValid,
		Time:             at,
	}
	for _, s := range plan.Schedule.Sessions() {
		ev.Sessions[s.Type]++
		ev.ScheduledMinutes[s.Type] += s.Duration
	}
	for _, t := range []model.SessionType{model.SessionHomework, model.SessionExamRevision} {
		ev.ShortfallMinutes[t] = plan.Report.ShortfallMinutes(t)
	}
	ev.Utilization = scheduler.Summarize(plan.Schedule, plan.BudgetMinutes).Utilization
	return ev
}

// NewRescheduleEvent builds the event for res.
func NewRescheduleEvent(userID string, res scheduler.RescheduleResult, at time.Time) RescheduleEvent {
	return RescheduleEvent{
		UserID:           userID,
		SessionID:        res.Original.ID,
		Type:             res.Original.Type,
		RequestedMinutes: res.RequestedMinutes,
		AssignedMinutes:  res.AssignedMinutes,
		DroppedMinutes:   res.DroppedMinutes,
		Sessions:         len(res.Sessions),
		Time:             at,
	}
}
