package scheduler

import (
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

// DailyBucket holds the sessions of one calendar day.
type DailyBucket struct {
	Date         time.Time       `json:"date"`
	Sessions     []model.Session `json:"sessions"`
	TotalMinutes int             `json:"total_minutes"`
}

// WeeklySchedule is exactly WindowDays contiguous buckets starting on a
// Monday.
type WeeklySchedule struct {
	Start time.Time     `json:"start"`
	Days  []DailyBucket `json:"days"`
}

// Window returns the dates of the week containing ref, Monday first.
func Window(ref time.Time) []time.Time {
	start := model.WeekStart(ref)
	dates := make([]time.Time, WindowDays)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// NewWeeklySchedule groups sessions into the week containing ref. Sessions
// dated outside that week are ignored. Bucket totals are recomputed from the
// sessions they hold.
func NewWeeklySchedule(ref time.Time, sessions []model.Session) *WeeklySchedule {
	dates := Window(ref)
	w := &WeeklySchedule{Start: dates[0], Days: make([]DailyBucket, len(dates))}
	for i, d := range dates {
		w.Days[i] = DailyBucket{Date: d, Sessions: []model.Session{}}
	}
	for _, s := range sessions {
		i := model.DaysBetween(w.Start, s.Date)
		if i < 0 || i >= WindowDays {
			continue
		}
		w.Days[i].Sessions = append(w.Days[i].Sessions, s)
		w.Days[i].TotalMinutes += s.Duration
	}
	return w
}

// End returns the last date of the week.
func (w *WeeklySchedule) End() time.Time {
	return w.Start.AddDate(0, 0, WindowDays-1)
}

// Bucket returns the bucket for date.
func (w *WeeklySchedule) Bucket(date time.Time) (DailyBucket, bool) {
	i := model.DaysBetween(w.Start, date)
	if i < 0 || i >= len(w.Days) {
		return DailyBucket{}, false
	}
	return w.Days[i], true
}

// Sessions returns every session of the week in day order.
func (w *WeeklySchedule) Sessions() []model.Session {
	var out []model.Session
	for _, d := range w.Days {
		out = append(out, d.Sessions...)
	}
	return out
}

// ByDate indexes the buckets by their YYYY-MM-DD date.
func (w *WeeklySchedule) ByDate() map[string]DailyBucket {
	out := make(map[string]DailyBucket, len(w.Days))
	for _, d := range w.Days {
		out[d.Date.Format(model.DateLayout)] = d
	}
	return out
}

// ScheduledMinutes sums the session durations per source ID.
func (w *WeeklySchedule) ScheduledMinutes() map[string]int {
	out := make(map[string]int)
	for _, d := range w.Days {
		for _, s := range d.Sessions {
			out[s.SourceID] += s.Duration
		}
	}
	return out
}
