package scheduler

import (
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

// WindowDays is the length of a scheduling window.
const WindowDays = 7

// AllocateTask places the task's estimated minutes on the earliest days of
// the window that still have room, up to its deadline. Minutes that do not
// fit are left unplaced; a deadline before the window start yields nothing.
func AllocateTask(task model.Task, windowStart time.Time, capacity Capacity, ids IDGenerator) (Capacity, []model.Session) {
	start := model.Day(windowStart)
	daysUntilDeadline := model.DaysBetween(start, task.Deadline)
	if daysUntilDeadline < 0 {
		return capacity, nil
	}
	last := min(daysUntilDeadline, WindowDays-1)

	remaining := task.EstimatedTime
	var sessions []model.Session
	for day := 0; day <= last && remaining > 0; day++ {
		date := start.AddDate(0, 0, day)
		assign := min(remaining, capacity.Free(date))
		if assign <= 0 {
			continue
		}
		capacity = capacity.Commit(date, assign)
		remaining -= assign
		key := SessionKey{Kind: string(model.SessionHomework), SourceID: task.ID, Date: date, Seq: len(sessions)}
		sessions = append(sessions, model.Session{
			ID:       ids.SessionID(key),
			Type:     model.SessionHomework,
			SourceID: task.ID,
			Title:    task.Name,
			Subject:  task.Subject,
			Date:     date,
			Duration: assign,
			Status:   model.StatusPlanned,
		})
	}
	return capacity, sessions
}
