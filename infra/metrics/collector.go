package metrics

import (
	"context"

	"github.com/kilianp07/studyplan/core/events"
	corelogger "github.com/kilianp07/studyplan/core/logger"
	coremetrics "github.com/kilianp07/studyplan/core/metrics"
	"github.com/kilianp07/studyplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed; the returned
// channel is closed at that point.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.Event], sink coremetrics.MetricsSink, log corelogger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log = corelogger.OrNop(log)
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
				if err := record(sink, ev); err != nil {
					log.Warnf("record %s metrics: %v", ev.Name(), err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev events.Event) error {
	switch e := ev.(type) {
	case events.PlanEvent:
		return sink.RecordPlan(coremetrics.NewPlanEvent(e.UserID, e.Plan, e.Time))
	case events.RescheduleEvent:
		if r, ok := sink.(coremetrics.RescheduleRecorder); ok {
			return r.RecordReschedule(coremetrics.NewRescheduleEvent(e.UserID, e.Result, e.Time))
		}
	case events.StatusEvent:
		if r, ok := sink.(coremetrics.StatusRecorder); ok {
			return r.RecordSessionStatus(coremetrics.StatusEvent{
				UserID:    e.UserID,
				SessionID: e.Session.ID,
				Type:      e.Session.Type,
				Status:    e.Session.Status,
				Duration:  e.Session.Duration,
				Time:      e.Time,
			})
		}
	}
	return nil
}
