package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/studyplan/core/events"
	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/scheduler"
	"github.com/kilianp07/studyplan/internal/eventbus"
)

type published struct {
	topic   string
	payload []byte
}

type memPublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (m *memPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, published{topic, payload})
	return nil
}

var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func TestTopic(t *testing.T) {
	assert.Equal(t, "studyplan/users/u1/plan", Topic("studyplan/users/", "u1", "plan"))
	assert.Equal(t, "p/u/status", Topic("p", "u", "status"))
}

func TestNotifyPlan(t *testing.T) {
	plan, err := scheduler.Generate([]model.Task{{ID: "t", Name: "Essay", Deadline: monday, EstimatedTime: 30, Status: model.TaskPending}}, nil,
		scheduler.Options{DailyBudgetMinutes: 60, Reference: monday})
	require.NoError(t, err)

	pub := &memPublisher{}
	n := NewNotifier(pub, "studyplan", nil)
	require.NoError(t, n.Notify(context.Background(), events.PlanEvent{UserID: "u1", Plan: plan, Time: monday}))

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "studyplan/u1/plan", pub.msgs[0].topic)
	var msg Message
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &msg))
	assert.Equal(t, "2025-01-06", msg.WeekStart)
	require.NotNil(t, msg.Valid)
	assert.True(t, *msg.Valid)
	require.Len(t, msg.Sessions, 1)
	assert.Equal(t, 30, msg.Sessions[0].Duration)
}

func TestNotifyWrapsTransportErrors(t *testing.T) {
	pub := &memPublisher{err: errors.New("broker down")}
	n := NewNotifier(pub, "p", nil)
	err := n.Notify(context.Background(), events.StatusEvent{UserID: "u1", Session: model.Session{ID: "s"}})
	assert.True(t, errors.Is(err, ErrPublish), "got %v", err)
}

func TestNotifierStart(t *testing.T) {
	pub := &memPublisher{}
	bus := eventbus.NewTyped[events.Event]()
	done := NewNotifier(pub, "p", nil).Start(context.Background(), bus)
	bus.Publish(events.RescheduleEvent{UserID: "u1", Result: scheduler.RescheduleResult{DroppedMinutes: 15}, Time: monday})
	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier did not stop")
	}
	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "p/u1/reschedule", pub.msgs[0].topic)
	var msg Message
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &msg))
	assert.Equal(t, 15, msg.Dropped)
}
