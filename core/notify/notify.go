// Package notify turns planner events into messages for clients that keep
// a local copy of their schedule, such as a calendar app subscribed over
// MQTT.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/studyplan/core/events"
	corelogger "github.com/kilianp07/studyplan/core/logger"
	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/internal/eventbus"
)

// ErrPublish wraps failures of the underlying transport.
var ErrPublish = errors.New("publish notification")

// Publisher delivers a payload on a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Message is the JSON payload sent for every event.
type Message struct {
	Event     string          `json:"event"`
	UserID    string          `json:"user_id"`
	Time      time.Time       `json:"time"`
	WeekStart string          `json:"week_start,omitempty"`
	Valid     *bool           `json:"valid,omitempty"`
	Sessions  []model.Session `json:"sessions,omitempty"`
	Dropped   int             `json:"dropped_minutes,omitempty"`
}

// Topic returns the topic of an event for userID: <prefix>/<user>/<event>.
func Topic(prefix, userID, event string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + userID + "/" + event
}

// NewMessage builds the payload for ev.
func NewMessage(ev events.Event) (Message, bool) {
	switch e := ev.(type) {
	case events.PlanEvent:
		valid := e.Plan.Report.IsValid
		return Message{
			Event:     e.Name(),
			UserID:    e.UserID,
			Time:      e.Time,
			WeekStart: e.Plan.Schedule.Start.Format(model.DateLayout),
			Valid:     &valid,
			Sessions:  e.Plan.Schedule.Sessions(),
		}, true
	case events.RescheduleEvent:
		return Message{
			Event:    e.Name(),
			UserID:   e.UserID,
			Time:     e.Time,
			Sessions: e.Result.Sessions,
			Dropped:  e.Result.DroppedMinutes,
		}, true
	case events.StatusEvent:
		return Message{
			Event:    e.Name(),
			UserID:   e.UserID,
			Time:     e.Time,
			Sessions: []model.Session{e.Session},
		}, true
	}
	return Message{}, false
}

// Notifier publishes planner events.
type Notifier struct {
	pub    Publisher
	prefix string
	log    corelogger.Logger
}

// NewNotifier returns a Notifier publishing under prefix.
func NewNotifier(pub Publisher, prefix string, log corelogger.Logger) *Notifier {
	return &Notifier{pub: pub, prefix: prefix, log: corelogger.OrNop(log)}
}

// Notify publishes one event.
func (n *Notifier) Notify(ctx context.Context, ev events.Event) error {
	msg, ok := NewMessage(ev)
	if !ok {
		return nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := n.pub.Publish(ctx, Topic(n.prefix, msg.UserID, msg.Event), payload); err != nil {
		return fmt.Errorf("%w %s: %w", ErrPublish, msg.Event, err)
	}
	return nil
}

// Start forwards bus events to Notify until ctx is canceled or the bus is
// closed. The returned channel is closed when it stops.
func (n *Notifier) Start(ctx context.Context, bus *eventbus.TypedBus[events.Event]) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || n.pub == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := n.Notify(context.WithoutCancel(ctx), ev); err != nil {
					n.log.Warnf("notify %s for %s: %v", ev.Name(), ev.User(), err)
				}
			}
		}
	}()
	return done
}
