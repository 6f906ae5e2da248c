package history

import (
	"context"

	"github.com/kilianp07/studyplan/core/events"
	corelogger "github.com/kilianp07/studyplan/core/logger"
	"github.com/kilianp07/studyplan/internal/eventbus"
)

// StartRecorder appends a Record for every event published on bus until ctx
// is canceled or the bus is closed. The returned channel is closed when it
// stops.
func StartRecorder(ctx context.Context, bus *eventbus.TypedBus[events.Event], store Store, log corelogger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || store == nil {
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
				rec, known := FromEvent(ev)
				if !known {
					continue
				}
				// detached from ctx so the last records survive shutdown
				if err := store.Append(context.WithoutCancel(ctx), rec); err != nil {
					log.Errorf("history append %s: %v", rec.Kind, err)
				}
			}
		}
	}()
	return done
}
