// Package app wires the planner core to its stores, metrics, history and
// notifications.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/studyplan/config"
	"github.com/kilianp07/studyplan/core/events"
	"github.com/kilianp07/studyplan/core/history"
	coremetrics "github.com/kilianp07/studyplan/core/metrics"
	"github.com/kilianp07/studyplan/core/model"
	coremon "github.com/kilianp07/studyplan/core/monitoring"
	"github.com/kilianp07/studyplan/core/notify"
	"github.com/kilianp07/studyplan/core/scheduler"
	corestore "github.com/kilianp07/studyplan/core/store"
	"github.com/kilianp07/studyplan/core/workload"
	"github.com/kilianp07/studyplan/infra/logger"
	"github.com/kilianp07/studyplan/infra/metrics"
	"github.com/kilianp07/studyplan/infra/monitoring"
	"github.com/kilianp07/studyplan/infra/mqtt"
	infrastore "github.com/kilianp07/studyplan/infra/store"
	"github.com/kilianp07/studyplan/internal/eventbus"
)

// ErrUserRequired is returned when an operation is called without a user.
var ErrUserRequired = errors.New("user id is required")

// ErrAlreadyRescheduled is returned when a missed session already has
// rescheduled sessions stored for it.
var ErrAlreadyRescheduled = errors.New("session already rescheduled")

// IsInvalidInput reports whether err was caused by the caller's input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrUserRequired) || model.IsInvalidInput(err)
}

// WeekView is a stored week with its load statistics.
type WeekView struct {
	Schedule *scheduler.WeeklySchedule `json:"schedule"`
	Summary  scheduler.Summary         `json:"summary"`
}

// Service runs planner operations for many users.
type Service struct {
	budget  int
	ids     scheduler.IDGenerator
	store   corestore.Store
	history history.Store
	sink    coremetrics.MetricsSink
	pub     notify.Publisher
	prefix  string
	bus     *eventbus.TypedBus[events.Event]
	log     logger.Logger
	now     func() time.Time

	promAddr  string
	workers   []<-chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// Option overrides a dependency built from configuration.
type Option func(*Service)

// WithStore sets the session store.
func WithStore(s corestore.Store) Option { return func(svc *Service) { svc.store = s } }

// WithHistory sets the history store.
func WithHistory(h history.Store) Option { return func(svc *Service) { svc.history = h } }

// WithMetricsSink sets the metrics sink.
func WithMetricsSink(m coremetrics.MetricsSink) Option { return func(svc *Service) { svc.sink = m } }

// WithPublisher sets the notification publisher.
func WithPublisher(p notify.Publisher) Option { return func(svc *Service) { svc.pub = p } }

// WithClock sets the time source used for defaults and event timestamps.
func WithClock(now func() time.Time) Option { return func(svc *Service) { svc.now = now } }

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// New creates a Service from the configuration. Dependencies not supplied
// through options are built from cfg. Background consumers for metrics,
// history and notifications start immediately; call Close to drain them.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	ids, err := cfg.Planner.IDGenerator()
	if err != nil {
		return nil, err
	}
	svc := &Service{
		budget: cfg.Planner.DailyBudgetMinutes,
		ids:    ids,
		prefix: cfg.Notify.TopicPrefix,
		bus:    eventbus.NewTypedBuffered[events.Event](64),
		now:    time.Now,
	}
	for _, o := range opts {
		o(svc)
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}
	if err := svc.build(cfg); err != nil {
		_ = svc.closeResources()
		return nil, err
	}
	if cfg.Metrics.HasSink("prometheus") {
		svc.promAddr = cfg.Metrics.PrometheusAddr
	}
	svc.start()
	return svc, nil
}

func (s *Service) build(cfg *config.Config) error {
	var err error
	// Counter IDs restart at 1 with every service, so they only stay unique
	// in a store this service creates and nobody else writes to.
	if cfg.Planner.IDStrategy == "counter" && (s.store != nil || cfg.Store.Type != "memory") {
		return fmt.Errorf("store: %w", config.ErrCounterIDs)
	}
	if s.store == nil {
		if s.store, err = infrastore.New(cfg.Store); err != nil {
			return fmt.Errorf("store: %w", err)
		}
	}
	if s.history == nil {
		if s.history, err = history.New(cfg.History); err != nil {
			return fmt.Errorf("history: %w", err)
		}
	}
	if s.sink == nil {
		if s.sink, err = cfg.Metrics.NewSink(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}
	if s.pub == nil && cfg.Notify.Enabled {
		if s.pub, err = mqtt.NewPahoPublisher(cfg.Notify); err != nil {
			return fmt.Errorf("mqtt publisher: %w", err)
		}
	}
	return nil
}

func (s *Service) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.workers = append(s.workers,
		metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("metrics")),
		history.StartRecorder(ctx, s.bus, s.history, logger.New("history")),
	)
	if s.pub != nil {
		n := notify.NewNotifier(s.pub, s.prefix, logger.New("notify"))
		s.workers = append(s.workers, n.Start(ctx, s.bus))
	}
}

// Budget returns the configured daily budget in minutes.
func (s *Service) Budget() int { return s.budget }

// Generate plans the week of wl.Reference (today when zero) and replaces
// the user's stored sessions for that week. When storing fails the plan is
// still returned with the error so the caller may retry.
func (s *Service) Generate(ctx context.Context, userID string, wl workload.Workload) (*scheduler.Plan, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	ref := wl.Reference
	if ref.IsZero() {
		ref = s.now()
	}
	plan, err := scheduler.Generate(wl.Tasks, wl.Exams, scheduler.Options{
		DailyBudgetMinutes: s.budget,
		Reference:          ref,
		IDs:                s.ids,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceWeek(ctx, userID, plan.Schedule.Start, plan.Schedule.Sessions()); err != nil {
		s.log.Errorf("store plan for %s: %v", userID, err)
		coremon.CaptureUserError(err, "app", userID)
		return plan, fmt.Errorf("store plan: %w", err)
	}
	s.bus.Publish(events.PlanEvent{UserID: userID, Plan: plan, Time: s.now()})
	s.log.Infof("planned week %s for %s: %d sessions, valid=%t",
		plan.Schedule.Start.Format(model.DateLayout), userID, len(plan.Schedule.Sessions()), plan.Report.IsValid)
	return plan, nil
}

// Week rebuilds the stored week containing ref.
func (s *Service) Week(ctx context.Context, userID string, ref time.Time) (WeekView, error) {
	if userID == "" {
		return WeekView{}, ErrUserRequired
	}
	week, err := s.storedWeek(ctx, userID, ref)
	if err != nil {
		return WeekView{}, err
	}
	return WeekView{Schedule: week, Summary: scheduler.Summarize(week, s.budget)}, nil
}

func (s *Service) storedWeek(ctx context.Context, userID string, ref time.Time) (*scheduler.WeeklySchedule, error) {
	if ref.IsZero() {
		ref = s.now()
	}
	start := model.WeekStart(ref)
	sessions, err := s.store.Range(ctx, userID, start, start.AddDate(0, 0, scheduler.WindowDays-1))
	if err != nil {
		return nil, fmt.Errorf("load week: %w", err)
	}
	return scheduler.NewWeeklySchedule(start, sessions), nil
}

// MarkStatus records what happened to a session and returns it updated.
func (s *Service) MarkStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) (model.Session, error) {
	if userID == "" {
		return model.Session{}, ErrUserRequired
	}
	if !status.Valid() {
		return model.Session{}, fmt.Errorf("%w %q: unknown status %q", model.ErrInvalidSession, sessionID, status)
	}
	if err := s.store.UpdateStatus(ctx, userID, sessionID, status); err != nil {
		return model.Session{}, err
	}
	sess, err := s.store.Get(ctx, userID, sessionID)
	if err != nil {
		return model.Session{}, err
	}
	s.bus.Publish(events.StatusEvent{UserID: userID, Session: sess, Time: s.now()})
	s.log.Debugf("session %s of %s marked %s", sessionID, userID, status)
	return sess, nil
}

// Reschedule spreads a missed session over the following days and stores
// the new sessions. The missed session itself is left unchanged.
func (s *Service) Reschedule(ctx context.Context, userID, sessionID string) (scheduler.RescheduleResult, error) {
	if userID == "" {
		return scheduler.RescheduleResult{}, ErrUserRequired
	}
	missed, err := s.store.Get(ctx, userID, sessionID)
	if err != nil {
		return scheduler.RescheduleResult{}, err
	}
	from := model.Day(missed.Date).AddDate(0, 0, 1)
	to := model.Day(missed.Date).AddDate(0, 0, scheduler.RescheduleHorizonDays)
	existing, err := s.store.Range(ctx, userID, from, to)
	if err != nil {
		return scheduler.RescheduleResult{}, fmt.Errorf("load following days: %w", err)
	}
	for _, sess := range existing {
		if sess.Origin == missed.ID {
			return scheduler.RescheduleResult{}, fmt.Errorf("%w: %s", ErrAlreadyRescheduled, missed.ID)
		}
	}
	res, err := scheduler.Reschedule(missed, existing, s.budget, s.ids)
	if err != nil {
		return scheduler.RescheduleResult{}, err
	}
	if !res.Empty() {
		if err := s.store.Append(ctx, userID, res.Sessions); err != nil {
			coremon.CaptureUserError(err, "app", userID)
			return res, fmt.Errorf("store rescheduled sessions: %w", err)
		}
	}
	s.bus.Publish(events.RescheduleEvent{UserID: userID, Result: res, Time: s.now()})
	if res.Partial() {
		s.log.Warnf("rescheduled %s for %s: %d of %d minutes dropped", sessionID, userID, res.DroppedMinutes, res.RequestedMinutes)
	} else {
		s.log.Infof("rescheduled %s for %s over %d sessions", sessionID, userID, len(res.Sessions))
	}
	return res, nil
}

// Validate checks the stored week of wl.Reference against the workload.
func (s *Service) Validate(ctx context.Context, userID string, wl workload.Workload) (scheduler.ValidationReport, error) {
	if userID == "" {
		return scheduler.ValidationReport{}, ErrUserRequired
	}
	if err := scheduler.ValidateInput(wl.Tasks, wl.Exams, s.budget); err != nil {
		return scheduler.ValidationReport{}, err
	}
	week, err := s.storedWeek(ctx, userID, wl.Reference)
	if err != nil {
		return scheduler.ValidationReport{}, err
	}
	tasks := scheduler.PendingTasks(wl.Tasks)
	exams := scheduler.UpcomingExams(wl.Exams, week.Start)
	return scheduler.Validate(week, tasks, exams, s.budget), nil
}

// History returns the recorded events matching q.
func (s *Service) History(ctx context.Context, q history.Query) ([]history.Record, error) {
	return s.history.Query(ctx, q)
}

// Run serves /metrics when a prometheus sink is configured and blocks until
// ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.promAddr == "" {
		<-ctx.Done()
		return nil
	}
	return metrics.StartPromServer(ctx, s.promAddr)
}

// Close drains pending events and releases the resources held by the
// service.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.bus.Close()
		timeout := time.After(5 * time.Second)
	wait:
		for _, done := range s.workers {
			select {
			case <-done:
			case <-timeout:
				s.log.Warnf("event consumers did not stop in time")
				break wait
			}
		}
		if s.cancel != nil {
			s.cancel()
		}
		if n := s.bus.Dropped(); n > 0 {
			s.log.Warnf("%d events dropped on full buffers", n)
		}
		s.closeErr = s.closeResources()
		coremon.Flush(2 * time.Second)
	})
	return s.closeErr
}

func (s *Service) closeResources() error {
	var errs []error
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.history != nil {
		errs = append(errs, s.history.Close())
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	if p, ok := s.pub.(*mqtt.PahoPublisher); ok {
		p.Disconnect()
	}
	return errors.Join(errs...)
}
