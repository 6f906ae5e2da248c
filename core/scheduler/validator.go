package scheduler

import (
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

// ValidationDetails holds the independent checks of a ValidationReport.
type ValidationDetails struct {
	AllTasksScheduled          bool `json:"allTasksScheduled"`
	NoDeadlineViolations       bool `json:"noDeadlineViolations"`
	ExamDistribution           bool `json:"examDistribution"`
	StudySessionLimitRespected bool `json:"studySessionLimitRespected"`
}

// Shortfall is the time of one task or exam that could not be placed.
type Shortfall struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Type           model.SessionType `json:"type"`
	MissingMinutes int               `json:"missingMinutes"`
}

// ValidationReport is the result of checking a schedule against its inputs.
type ValidationReport struct {
	IsValid    bool              `json:"isValid"`
	Details    ValidationDetails `json:"details"`
	Shortfalls []Shortfall       `json:"shortfalls"`

	// IDs behind failed checks.
	DeadlineViolations    []string    `json:"deadlineViolations,omitempty"`
	UnderDistributedExams []string    `json:"underDistributedExams,omitempty"`
	OverBudgetDays        []time.Time `json:"overBudgetDays,omitempty"`
}

// ShortfallMinutes sums the missing minutes of all shortfalls of type t.
func (r ValidationReport) ShortfallMinutes(t model.SessionType) int {
	total := 0
	for _, s := range r.Shortfalls {
		if s.Type == t {
			total += s.MissingMinutes
		}
	}
	return total
}

// Validate checks week against the tasks and exams it was built from.
func Validate(week *WeeklySchedule, tasks []model.Task, exams []model.Exam, budget int) ValidationReport {
	scheduled := week.ScheduledMinutes()
	bySource := make(map[string][]model.Session)
	for _, s := range week.Sessions() {
		bySource[s.SourceID] = append(bySource[s.SourceID], s)
	}

	r := ValidationReport{Shortfalls: []Shortfall{}}
	for _, t := range tasks {
		if missing := t.EstimatedTime - scheduled[t.ID]; missing > 0 {
			r.Shortfalls = append(r.Shortfalls, Shortfall{ID: t.ID, Name: t.Name, Type: model.SessionHomework, MissingMinutes: missing})
		}
		if !meetsDeadline(t, bySource[t.ID]) {
			r.DeadlineViolations = append(r.DeadlineViolations, t.ID)
		}
	}
	for _, e := range exams {
		if missing := e.RequiredMinutes() - scheduled[e.ID]; missing > 0 {
			r.Shortfalls = append(r.Shortfalls, Shortfall{ID: e.ID, Name: e.DisplayName(), Type: model.SessionExamRevision, MissingMinutes: missing})
		}
		if len(bySource[e.ID]) < minRevisionDays {
			r.UnderDistributedExams = append(r.UnderDistributedExams, e.ID)
		}
	}
	for _, d := range week.Days {
		if d.TotalMinutes > budget {
			r.OverBudgetDays = append(r.OverBudgetDays, d.Date)
		}
	}

	r.Details = ValidationDetails{
		AllTasksScheduled:          len(r.Shortfalls) == 0,
		NoDeadlineViolations:       len(r.DeadlineViolations) == 0,
		ExamDistribution:           len(r.UnderDistributedExams) == 0,
		StudySessionLimitRespected: len(r.OverBudgetDays) == 0,
	}
	r.IsValid = r.Details.AllTasksScheduled &&
		r.Details.NoDeadlineViolations &&
		r.Details.ExamDistribution &&
		r.Details.StudySessionLimitRespected
	return r
}

// meetsDeadline requires at least one session and none after the deadline.
func meetsDeadline(t model.Task, sessions []model.Session) bool {
	if len(sessions) == 0 {
		return false
	}
	deadline := model.Day(t.Deadline)
	for _, s := range sessions {
		if model.Day(s.Date).After(deadline) {
			return false
		}
	}
	return true
}
