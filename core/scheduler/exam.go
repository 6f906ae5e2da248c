package scheduler

import (
	"fmt"
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

const (
	minRevisionDays = 3
	maxRevisionDays = WindowDays
)

// revisionDays is the number of days an exam's revision is spread over.
func revisionDays(daysUntilExam int) int {
	return max(minRevisionDays, min(daysUntilExam, maxRevisionDays))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

type dayKey struct {
	date     time.Time
	sourceID string
}

// DistributeExam spreads the exam's revision minutes over the first days of
// the window. A first pass gives each day at most an even share; a second
// pass fills whatever the first one could not place into days with spare
// room, growing an existing session for that day rather than adding one.
// Exams dated before the window start are skipped.
func DistributeExam(exam model.Exam, windowStart time.Time, capacity Capacity, ids IDGenerator) (Capacity, []model.Session) {
	start := model.Day(windowStart)
	daysUntilExam := model.DaysBetween(start, exam.Date)
	if daysUntilExam < 0 {
		return capacity, nil
	}
	daysToUse := revisionDays(daysUntilExam)
	last := min(daysToUse, WindowDays) - 1

	remaining := exam.RequiredMinutes()
	idealShare := ceilDiv(remaining, daysToUse)

	var sessions []model.Session
	index := make(map[dayKey]int)
	place := func(date time.Time, minutes int) {
		capacity = capacity.Commit(date, minutes)
		remaining -= minutes
		k := dayKey{date: date, sourceID: exam.ID}
		if i, ok := index[k]; ok {
			sessions[i].Duration += minutes
			return
		}
		key := SessionKey{Kind: string(model.SessionExamRevision), SourceID: exam.ID, Date: date, Seq: len(sessions)}
		index[k] = len(sessions)
		sessions = append(sessions, model.Session{
			ID:       ids.SessionID(key),
			Type:     model.SessionExamRevision,
			SourceID: exam.ID,
			Title:    fmt.Sprintf("%s exam revision", exam.Subject),
			Subject:  exam.Subject,
			Date:     date,
			Duration: minutes,
			Status:   model.StatusPlanned,
		})
	}

	for day := 0; day <= last && remaining > 0; day++ {
		date := start.AddDate(0, 0, day)
		if assign := min(remaining, capacity.Free(date), idealShare); assign > 0 {
			place(date, assign)
		}
	}
	for day := 0; day <= last && remaining > 0; day++ {
		date := start.AddDate(0, 0, day)
		if assign := min(remaining, capacity.Free(date)); assign > 0 {
			place(date, assign)
		}
	}
	return capacity, sessions
}
