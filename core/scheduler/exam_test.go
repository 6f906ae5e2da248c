package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/studyplan/core/model"
)

func TestDistributeExamEvenShare(t *testing.T) {
	_, sessions := DistributeExam(exam("e1", 5, 240), monday, NewCapacity(480), HashIDs{})
	require.Len(t, sessions, 5)
	assert.Equal(t, map[int]int{0: 48, 1: 48, 2: 48, 3: 48, 4: 48}, durations(sessions))
	for _, s := range sessions {
		assert.Equal(t, model.SessionExamRevision, s.Type)
		assert.Equal(t, "Physics exam revision", s.Title)
	}
}

func TestDistributeExamDefaultMinutes(t *testing.T) {
	_, sessions := DistributeExam(model.Exam{ID: "e", Subject: "Art", Date: day(4)}, monday, NewCapacity(480), HashIDs{})
	assert.Equal(t, model.DefaultExamMinutes, model.TotalDuration(sessions))
	assert.Len(t, sessions, 4)
}

func TestDistributeExamAtLeastThreeDays(t *testing.T) {
	_, sessions := DistributeExam(exam("soon", 1, 240), monday, NewCapacity(480), HashIDs{})
	assert.Equal(t, map[int]int{0: 80, 1: 80, 2: 80}, durations(sessions))
}

func TestDistributeExamBeyondWindowUsesSevenDays(t *testing.T) {
	_, sessions := DistributeExam(exam("far", 10, 240), monday, NewCapacity(480), HashIDs{})
	require.Len(t, sessions, 7)
	d := durations(sessions)
	for i := 0; i < 6; i++ {
		assert.Equal(t, 35, d[i], "day %d", i)
	}
	assert.Equal(t, 30, d[6])
}

func TestDistributeExamPastIsSkipped(t *testing.T) {
	_, sessions := DistributeExam(exam("old", -1, 240), monday, NewCapacity(480), HashIDs{})
	assert.Empty(t, sessions)
}

func TestDistributeExamLeftoverMergesIntoExistingSessions(t *testing.T) {
	c := NewCapacity(100).Commit(day(0), 60)
	capacity, sessions := DistributeExam(exam("e", 3, 240), monday, c, HashIDs{})
	require.Len(t, sessions, 3, "one session per day per exam")
	assert.Equal(t, map[int]int{0: 40, 1: 100, 2: 100}, durations(sessions))
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, capacity.Free(day(i)))
	}
}

func TestDistributeExamShortfallWhenFull(t *testing.T) {
	_, sessions := DistributeExam(exam("e", 3, 240), monday, NewCapacity(60), HashIDs{})
	assert.Equal(t, 180, model.TotalDuration(sessions))
}
