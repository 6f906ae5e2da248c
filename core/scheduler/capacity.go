package scheduler

import (
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

// Capacity tracks the minutes committed per calendar day against a daily
// budget. Commit returns a new Capacity and leaves the receiver untouched,
// so a value can be shared between steps without hidden mutation.
type Capacity struct {
	budget    int
	committed map[time.Time]int
}

// NewCapacity returns an empty tracker for the given daily budget.
func NewCapacity(budget int) Capacity {
	return Capacity{budget: budget, committed: map[time.Time]int{}}
}

// CapacityFromSessions returns a tracker where each day is charged with the
// durations of all sessions dated that day, whatever their status.
func CapacityFromSessions(budget int, sessions []model.Session) Capacity {
	c := NewCapacity(budget)
	for _, s := range sessions {
		c.committed[model.Day(s.Date)] += s.Duration
	}
	return c
}

// Budget returns the daily budget in minutes.
func (c Capacity) Budget() int { return c.budget }

// Committed returns the minutes already committed on day.
func (c Capacity) Committed(day time.Time) int {
	return c.committed[model.Day(day)]
}

// Free returns the minutes still available on day, never below zero.
func (c Capacity) Free(day time.Time) int {
	free := c.budget - c.Committed(day)
	if free < 0 {
		return 0
	}
	return free
}

// Commit charges minutes to day. Non-positive amounts are ignored.
func (c Capacity) Commit(day time.Time, minutes int) Capacity {
	if minutes <= 0 {
		return c
	}
	next := make(map[time.Time]int, len(c.committed)+1)
	for d, m := range c.committed {
		next[d] = m
	}
	next[model.Day(day)] += minutes
	return Capacity{budget: c.budget, committed: next}
}
