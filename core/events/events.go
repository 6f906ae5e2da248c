package events

import (
	"time"

	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/scheduler"
)

// Event is any value published on the planner bus.
type Event interface {
	// Name identifies the event kind, for example in notification topics.
	Name() string
	User() string
}

// PlanEvent is published after a plan has been generated.
type PlanEvent struct {
	UserID string
	Plan   *scheduler.Plan
	Time   time.Time
}

func (PlanEvent) Name() string   { return "plan" }
func (e PlanEvent) User() string { return e.UserID }

// StatusEvent is published when a session status is updated.
type StatusEvent struct {
	UserID  string
	Session model.Session
	Time    time.Time
}

func (StatusEvent) Name() string   { return "status" }
func (e StatusEvent) User() string { return e.UserID }

// RescheduleEvent is published after a missed session was redistributed.
type RescheduleEvent struct {
	UserID string
	Result scheduler.RescheduleResult
	Time   time.Time
}

func (RescheduleEvent) Name() string   { return "reschedule" }
func (e RescheduleEvent) User() string { return e.UserID }
