package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/scheduler"
)

func TestNewPlanEvent(t *testing.T) {
	ref := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{{ID: "t1", Name: "Essay", Deadline: ref.AddDate(0, 0, 6), EstimatedTime: 120, Status: model.TaskPending}}
	exams := []model.Exam{{ID: "e1", Subject: "Physics", Date: ref.AddDate(0, 0, 2), EstimatedTime: 300}}
	plan, err := scheduler.Generate(tasks, exams, scheduler.Options{DailyBudgetMinutes: 60, Reference: ref})
	require.NoError(t, err)

	ev := NewPlanEvent("u1", plan, ref)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, ref, ev.WeekStart)
	assert.Equal(t, 120, ev.ScheduledMinutes[model.SessionHomework])
	assert.Equal(t, 2, ev.Sessions[model.SessionHomework])
	// day 2 and after are left for the exam: 60 minutes on day 2 only
	assert.Equal(t, 60, ev.ScheduledMinutes[model.SessionExamRevision])
	assert.Equal(t, 240, ev.ShortfallMinutes[model.SessionExamRevision])
	assert.Zero(t, ev.ShortfallMinutes[model.SessionHomework])
	assert.False(t, ev.Valid)
	assert.InDelta(t, 180.0/420.0, ev.Utilization, 1e-9)
}
