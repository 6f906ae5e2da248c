package scheduler

import (
	"fmt"

	"github.com/kilianp07/studyplan/core/model"
)

// RescheduleHorizonDays is how many days after a missed session are tried.
const RescheduleHorizonDays = 3

// RescheduleResult reports the sessions created for a missed session and
// how much of its time they cover.
type RescheduleResult struct {
	Original         model.Session   `json:"original"`
	Sessions         []model.Session `json:"sessions"`
	RequestedMinutes int             `json:"requested_minutes"`
	AssignedMinutes  int             `json:"assigned_minutes"`
	DroppedMinutes   int             `json:"dropped_minutes"`
}

// Partial reports whether some of the missed time could not be placed.
func (r RescheduleResult) Partial() bool { return r.DroppedMinutes > 0 }

// Empty reports whether no time at all could be placed.
func (r RescheduleResult) Empty() bool { return len(r.Sessions) == 0 }

// Reschedule spreads the duration of a missed session over the days that
// follow it. Capacity is taken from existing, which should hold every
// session of those days regardless of status. Minutes that do not fit
// within the horizon are dropped and reported.
func Reschedule(missed model.Session, existing []model.Session, budget int, ids IDGenerator) (RescheduleResult, error) {
	if err := model.ValidateBudget(budget); err != nil {
		return RescheduleResult{}, err
	}
	if err := missed.Validate(); err != nil {
		return RescheduleResult{}, err
	}
	if missed.Status != model.StatusMissed {
		return RescheduleResult{}, fmt.Errorf("%w %q: status is %s, want %s", model.ErrInvalidSession, missed.ID, missed.Status, model.StatusMissed)
	}
	if ids == nil {
		ids = HashIDs{}
	}

	capacity := CapacityFromSessions(budget, existing)
	res := RescheduleResult{Original: missed, RequestedMinutes: missed.Duration}
	remaining := missed.Duration
	from := model.Day(missed.Date)
	for day := 1; day <= RescheduleHorizonDays && remaining > 0; day++ {
		date := from.AddDate(0, 0, day)
		assign := min(remaining, capacity.Free(date))
		if assign <= 0 {
			continue
		}
		capacity = capacity.Commit(date, assign)
		remaining -= assign
		key := SessionKey{Kind: KindRescheduled, SourceID: missed.SourceID, Origin: missed.ID, Date: date, Seq: len(res.Sessions)}
		res.Sessions = append(res.Sessions, model.Session{
			ID:       ids.SessionID(key),
			Type:     missed.Type,
			SourceID: missed.SourceID,
			Title:    missed.Title,
			Subject:  missed.Subject,
			Date:     date,
			Duration: assign,
			Status:   model.StatusRescheduled,
			Origin:   missed.ID,
		})
	}
	res.AssignedMinutes = missed.Duration - remaining
	res.DroppedMinutes = remaining
	return res, nil
}
