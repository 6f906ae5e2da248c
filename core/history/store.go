// Package history keeps an append-only log of what the planner did: plans
// generated, sessions rescheduled and status updates. It is the audit trail
// behind the session store, which only holds the current state.
package history

import (
	"context"
	"time"

	"github.com/kilianp07/studyplan/core/events"
	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/scheduler"
)

// Record kinds.
const (
	KindPlan       = "plan"
	KindReschedule = "reschedule"
	KindStatus     = "status"
)

// Record captures one planner action.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	UserID    string    `json:"user_id"`

	// plan
	WeekStart        time.Time                   `json:"week_start,omitzero"`
	Sessions         int                         `json:"sessions,omitempty"`
	ScheduledMinutes int                         `json:"scheduled_minutes,omitempty"`
	Report           *scheduler.ValidationReport `json:"report,omitempty"`

	// reschedule and status
	SessionID        string              `json:"session_id,omitempty"`
	Status           model.SessionStatus `json:"status,omitempty"`
	AssignedMinutes  int                 `json:"assigned_minutes,omitempty"`
	DroppedMinutes   int                 `json:"dropped_minutes,omitempty"`
	CreatedSessionID []string            `json:"created_session_ids,omitempty"`
}

// Query defines filters for retrieving records. Zero fields match all.
type Query struct {
	Start  time.Time
	End    time.Time
	UserID string
	Kind   string
}

// Matches reports whether r passes the filters of q.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.UserID != "" && r.UserID != q.UserID {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }

// FromEvent converts a bus event into a Record. ok is false for unknown
// event types.
func FromEvent(ev events.Event) (rec Record, ok bool) {
	switch e := ev.(type) {
	case events.PlanEvent:
		report := e.Plan.Report
		sessions := e.Plan.Schedule.Sessions()
		return Record{
			Timestamp:        e.Time,
			Kind:             KindPlan,
			UserID:           e.UserID,
			WeekStart:        e.Plan.Schedule.Start,
			Sessions:         len(sessions),
			ScheduledMinutes: model.TotalDuration(sessions),
			Report:           &report,
		}, true
	case events.RescheduleEvent:
		ids := make([]string, len(e.Result.Sessions))
		for i, s := range e.Result.Sessions {
			ids[i] = s.ID
		}
		return Record{
			Timestamp:        e.Time,
			Kind:             KindReschedule,
			UserID:           e.UserID,
			SessionID:        e.Result.Original.ID,
			AssignedMinutes:  e.Result.AssignedMinutes,
			DroppedMinutes:   e.Result.DroppedMinutes,
			CreatedSessionID: ids,
		}, true
	case events.StatusEvent:
		return Record{
			Timestamp: e.Time,
			Kind:      KindStatus,
			UserID:    e.UserID,
			SessionID: e.Session.ID,
			Status:    e.Session.Status,
		}, true
	}
	return Record{}, false
}
