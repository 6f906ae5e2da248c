package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/studyplan/core/metrics"
	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/infra/logger"
)

// InfluxSink writes planner events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlan writes one "plan" point per generated week.
func (s *InfluxSink) RecordPlan(ev coremetrics.PlanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan").
		AddTag("user_id", ev.UserID).
		AddTag("week_start", ev.WeekStart.Format(model.DateLayout)).
		AddTag("valid", strconv.FormatBool(ev.Valid)).
		AddField("homework_minutes", ev.ScheduledMinutes[model.SessionHomework]).
		AddField("revision_minutes", ev.ScheduledMinutes[model.SessionExamRevision]).
		AddField("homework_shortfall", ev.ShortfallMinutes[model.SessionHomework]).
		AddField("revision_shortfall", ev.ShortfallMinutes[model.SessionExamRevision]).
		AddField("budget_minutes", ev.BudgetMinutes).
		AddField("utilization", round3(ev.Utilization)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordReschedule writes a "reschedule" point.
func (s *InfluxSink) RecordReschedule(ev coremetrics.RescheduleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("reschedule").
		AddTag("user_id", ev.UserID).
		AddTag("session_type", string(ev.Type)).
		AddField("session_id", ev.SessionID).
		AddField("requested_minutes", ev.RequestedMinutes).
		AddField("assigned_minutes", ev.AssignedMinutes).
		AddField("dropped_minutes", ev.DroppedMinutes).
		AddField("sessions", ev.Sessions).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSessionStatus writes a "session_status" point.
func (s *InfluxSink) RecordSessionStatus(ev coremetrics.StatusEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("session_status").
		AddTag("user_id", ev.UserID).
		AddTag("session_type", string(ev.Type)).
		AddTag("status", string(ev.Status)).
		AddField("session_id", ev.SessionID).
		AddField("duration_minutes", ev.Duration).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
