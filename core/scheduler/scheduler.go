package scheduler

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

// Options parameterise one Generate call.
type Options struct {
	// DailyBudgetMinutes caps the study time placed on any day.
	DailyBudgetMinutes int
	// Reference is any date of the week to plan; it is moved back to Monday.
	Reference time.Time
	// IDs produces session identities. Nil means HashIDs.
	IDs IDGenerator
}

// Plan is the outcome of Generate.
type Plan struct {
	Schedule      *WeeklySchedule  `json:"schedule"`
	Tasks         []model.Task     `json:"tasks"`
	Exams         []model.Exam     `json:"exams"`
	BudgetMinutes int              `json:"budget_minutes"`
	Report        ValidationReport `json:"report"`
}

// PendingTasks returns the tasks that still need study time, in input order.
func PendingTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Pending() {
			out = append(out, t)
		}
	}
	return out
}

// UpcomingExams returns the exams dated on or after windowStart, in input
// order.
func UpcomingExams(exams []model.Exam, windowStart time.Time) []model.Exam {
	out := make([]model.Exam, 0, len(exams))
	for _, e := range exams {
		if model.DaysBetween(windowStart, e.Date) >= 0 {
			out = append(out, e)
		}
	}
	return out
}

// ValidateInput rejects malformed tasks, exams and budgets before any
// allocation happens. Identities must be unique across tasks and exams.
func ValidateInput(tasks []model.Task, exams []model.Exam, budget int) error {
	var errs []error
	if err := model.ValidateBudget(budget); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]struct{}, len(tasks)+len(exams))
	check := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("%w: %s", model.ErrDuplicateID, id))
		}
		seen[id] = struct{}{}
	}
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
		check(t.ID)
	}
	for _, e := range exams {
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
		check(e.ID)
	}
	return errors.Join(errs...)
}

// Generate plans the week containing opts.Reference. Pending tasks are
// served first, earliest deadline first with input order breaking ties;
// upcoming exams follow in input order. All allocations share one Capacity.
// Only malformed input is an error; unplaced minutes show up in the report.
func Generate(tasks []model.Task, exams []model.Exam, opts Options) (*Plan, error) {
	if err := ValidateInput(tasks, exams, opts.DailyBudgetMinutes); err != nil {
		return nil, err
	}
	ids := opts.IDs
	if ids == nil {
		ids = HashIDs{}
	}
	start := model.WeekStart(opts.Reference)

	pending := PendingTasks(tasks)
	slices.SortStableFunc(pending, func(a, b model.Task) int {
		return model.Day(a.Deadline).Compare(model.Day(b.Deadline))
	})
	upcoming := UpcomingExams(exams, start)

	capacity := NewCapacity(opts.DailyBudgetMinutes)
	var sessions []model.Session
	for _, t := range pending {
		var produced []model.Session
		capacity, produced = AllocateTask(t, start, capacity, ids)
		sessions = append(sessions, produced...)
	}
	for _, e := range upcoming {
		var produced []model.Session
		capacity, produced = DistributeExam(e, start, capacity, ids)
		sessions = append(sessions, produced...)
	}

	week := NewWeeklySchedule(start, sessions)
	return &Plan{
		Schedule:      week,
		Tasks:         pending,
		Exams:         upcoming,
		BudgetMinutes: opts.DailyBudgetMinutes,
		Report:        Validate(week, pending, upcoming, opts.DailyBudgetMinutes),
	}, nil
}
