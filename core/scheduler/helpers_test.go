package scheduler

import (
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

// monday is the window start used across tests.
var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return monday.AddDate(0, 0, offset) }

func task(id string, deadlineOffset, minutes int) model.Task {
	return model.Task{
		ID:            id,
		Name:          "Task " + id,
		Subject:       "Maths",
		Deadline:      day(deadlineOffset),
		EstimatedTime: minutes,
		Status:        model.TaskPending,
	}
}

func exam(id string, offset, minutes int) model.Exam {
	return model.Exam{ID: id, Subject: "Physics", Date: day(offset), EstimatedTime: minutes}
}

// durations returns minutes per window day offset.
func durations(sessions []model.Session) map[int]int {
	out := map[int]int{}
	for _, s := range sessions {
		out[model.DaysBetween(monday, s.Date)] += s.Duration
	}
	return out
}
