package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/studyplan/core/model"
)

func missedSession(offset, minutes int) model.Session {
	return model.Session{
		ID:       "m1",
		Type:     model.SessionHomework,
		SourceID: "t1",
		Title:    "Essay",
		Subject:  "History",
		Date:     day(offset),
		Duration: minutes,
		Status:   model.StatusMissed,
	}
}

func TestRescheduleSplitsAcrossFollowingDays(t *testing.T) {
	missed := missedSession(1, 90)
	existing := []model.Session{
		missed,
		{ID: "x", Type: model.SessionHomework, SourceID: "t2", Date: day(2), Duration: 450, Status: model.StatusPlanned},
	}
	res, err := Reschedule(missed, existing, 480, HashIDs{})
	require.NoError(t, err)
	require.Len(t, res.Sessions, 2)
	assert.Equal(t, map[int]int{2: 30, 3: 60}, durations(res.Sessions))
	assert.Equal(t, 90, res.AssignedMinutes)
	assert.Zero(t, res.DroppedMinutes)
	assert.False(t, res.Partial())
	for _, s := range res.Sessions {
		assert.Equal(t, model.StatusRescheduled, s.Status)
		assert.Equal(t, model.SessionHomework, s.Type)
		assert.Equal(t, "t1", s.SourceID)
		assert.Equal(t, "Essay", s.Title)
		assert.NotEqual(t, missed.ID, s.ID)
		assert.Equal(t, missed.ID, s.Origin)
	}
}

func TestRescheduleFullyAbsorbedKeepsDuration(t *testing.T) {
	missed := missedSession(0, 200)
	missed.Type = model.SessionExamRevision
	res, err := Reschedule(missed, nil, 480, HashIDs{})
	require.NoError(t, err)
	require.Len(t, res.Sessions, 1)
	assert.Equal(t, 200, model.TotalDuration(res.Sessions))
	assert.Equal(t, day(1), res.Sessions[0].Date)
	assert.Equal(t, model.SessionExamRevision, res.Sessions[0].Type)
}

func TestReschedulePartialDropsRemainder(t *testing.T) {
	missed := missedSession(0, 300)
	existing := []model.Session{
		{SourceID: "a", Date: day(1), Duration: 400, Status: model.StatusCompleted},
		{SourceID: "b", Date: day(2), Duration: 420, Status: model.StatusMissed},
		{SourceID: "c", Date: day(3), Duration: 460, Status: model.StatusPlanned},
		// day 4 is outside the horizon and must stay untouched
	}
	res, err := Reschedule(missed, existing, 480, HashIDs{})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 80, 2: 60, 3: 20}, durations(res.Sessions))
	assert.Equal(t, 160, res.AssignedMinutes)
	assert.Equal(t, 140, res.DroppedMinutes)
	assert.True(t, res.Partial())
}

func TestRescheduleNoCapacity(t *testing.T) {
	missed := missedSession(0, 60)
	existing := []model.Session{
		{SourceID: "a", Date: day(1), Duration: 60},
		{SourceID: "a", Date: day(2), Duration: 60},
		{SourceID: "a", Date: day(3), Duration: 60},
	}
	res, err := Reschedule(missed, existing, 60, HashIDs{})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, 60, res.DroppedMinutes)
}

func TestRescheduleRejectsInvalidInput(t *testing.T) {
	planned := missedSession(0, 60)
	planned.Status = model.StatusPlanned
	_, err := Reschedule(planned, nil, 480, nil)
	assert.True(t, errors.Is(err, model.ErrInvalidSession), "got %v", err)

	zero := missedSession(0, 0)
	_, err = Reschedule(zero, nil, 480, nil)
	assert.True(t, errors.Is(err, model.ErrInvalidSession), "got %v", err)

	_, err = Reschedule(missedSession(0, 60), nil, 1000, nil)
	assert.True(t, errors.Is(err, model.ErrInvalidBudget), "got %v", err)
}

func TestRescheduleIsDeterministic(t *testing.T) {
	missed := missedSession(2, 500)
	a, err := Reschedule(missed, nil, 240, HashIDs{})
	require.NoError(t, err)
	b, err := Reschedule(missed, nil, 240, HashIDs{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	require.Len(t, a.Sessions, 3)
	assert.Equal(t, 500, a.AssignedMinutes)
}
