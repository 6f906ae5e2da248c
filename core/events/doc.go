// Package events defines the planner events emitted on the event bus.
//
// Available event types:
//   - PlanEvent: a weekly plan was generated and stored
//   - StatusEvent: a session changed status
//   - RescheduleEvent: a missed session was redistributed
package events
