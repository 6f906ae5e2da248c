package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/studyplan/core/model"
)

func TestAllocateTaskSpillsToNextDay(t *testing.T) {
	capacity, sessions := AllocateTask(task("t1", 2, 500), monday, NewCapacity(480), HashIDs{})
	require.Len(t, sessions, 2)
	assert.Equal(t, map[int]int{0: 480, 1: 20}, durations(sessions))
	assert.Equal(t, 480, capacity.Free(day(2)))
	for _, s := range sessions {
		assert.Equal(t, model.SessionHomework, s.Type)
		assert.Equal(t, model.StatusPlanned, s.Status)
		assert.Equal(t, "t1", s.SourceID)
		assert.Equal(t, "Task t1", s.Title)
	}
}

func TestAllocateTaskPastDeadline(t *testing.T) {
	capacity, sessions := AllocateTask(task("late", -3, 120), monday, NewCapacity(480), HashIDs{})
	assert.Empty(t, sessions)
	assert.Equal(t, 480, capacity.Free(day(0)))
}

func TestAllocateTaskDeadlineOnWindowStart(t *testing.T) {
	_, sessions := AllocateTask(task("t", 0, 600), monday, NewCapacity(480), HashIDs{})
	assert.Equal(t, map[int]int{0: 480}, durations(sessions))
}

func TestAllocateTaskBeyondWindow(t *testing.T) {
	_, sessions := AllocateTask(task("big", 20, 4000), monday, NewCapacity(480), HashIDs{})
	require.Len(t, sessions, WindowDays)
	assert.Equal(t, 7*480, model.TotalDuration(sessions))
}

func TestAllocateTaskSkipsFullDays(t *testing.T) {
	c := NewCapacity(120).Commit(day(0), 120)
	_, sessions := AllocateTask(task("t", 3, 150), monday, c, HashIDs{})
	assert.Equal(t, map[int]int{1: 120, 2: 30}, durations(sessions))
}
