package scheduler

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/studyplan/core/model"
)

func generate(t *testing.T, tasks []model.Task, exams []model.Exam, budget int) *Plan {
	t.Helper()
	plan, err := Generate(tasks, exams, Options{DailyBudgetMinutes: budget, Reference: monday})
	require.NoError(t, err)
	return plan
}

func TestGenerateWindowStartsOnMonday(t *testing.T) {
	plan, err := Generate(nil, nil, Options{DailyBudgetMinutes: 480, Reference: day(4)})
	require.NoError(t, err)
	require.Len(t, plan.Schedule.Days, WindowDays)
	assert.Equal(t, monday, plan.Schedule.Start)
	for i, d := range plan.Schedule.Days {
		assert.Equal(t, day(i), d.Date)
		assert.Empty(t, d.Sessions)
		assert.Zero(t, d.TotalMinutes)
	}
	assert.True(t, plan.Report.IsValid)
}

func TestGenerateSingleTaskGreedyFill(t *testing.T) {
	plan := generate(t, []model.Task{task("t1", 2, 500)}, nil, 480)
	assert.Equal(t, 480, plan.Schedule.Days[0].TotalMinutes)
	assert.Equal(t, 20, plan.Schedule.Days[1].TotalMinutes)
	assert.Empty(t, plan.Schedule.Days[2].Sessions)
	assert.True(t, plan.Report.IsValid)
}

func TestGenerateSingleExamEvenShare(t *testing.T) {
	plan := generate(t, nil, []model.Exam{exam("e1", 5, 240)}, 480)
	for i := 0; i < 5; i++ {
		require.Len(t, plan.Schedule.Days[i].Sessions, 1)
		assert.Equal(t, 48, plan.Schedule.Days[i].TotalMinutes)
	}
	assert.True(t, plan.Report.Details.ExamDistribution)
}

func TestGenerateTaskPastDeadline(t *testing.T) {
	plan := generate(t, []model.Task{task("late", -2, 120)}, nil, 480)
	assert.Empty(t, plan.Schedule.Sessions())
	require.Len(t, plan.Report.Shortfalls, 1)
	assert.Equal(t, Shortfall{ID: "late", Name: "Task late", Type: model.SessionHomework, MissingMinutes: 120}, plan.Report.Shortfalls[0])
	assert.False(t, plan.Report.Details.NoDeadlineViolations)
	assert.Equal(t, []string{"late"}, plan.Report.DeadlineViolations)
	assert.False(t, plan.Report.IsValid)
}

func TestGenerateEarliestDeadlineFirst(t *testing.T) {
	plan := generate(t, []model.Task{task("later", 1, 60), task("sooner", 0, 60)}, nil, 60)
	require.Len(t, plan.Schedule.Days[0].Sessions, 1)
	assert.Equal(t, "sooner", plan.Schedule.Days[0].Sessions[0].SourceID)
	assert.Equal(t, "later", plan.Schedule.Days[1].Sessions[0].SourceID)
	assert.True(t, plan.Report.IsValid)
}

func TestGenerateDeadlineTieKeepsInputOrder(t *testing.T) {
	for _, order := range [][]string{{"a", "b"}, {"b", "a"}} {
		tasks := []model.Task{task(order[0], 0, 60), task(order[1], 0, 60)}
		plan := generate(t, tasks, nil, 60)
		require.Len(t, plan.Schedule.Days[0].Sessions, 1)
		assert.Equal(t, order[0], plan.Schedule.Days[0].Sessions[0].SourceID)
		require.Len(t, plan.Report.Shortfalls, 1)
		assert.Equal(t, order[1], plan.Report.Shortfalls[0].ID)
	}
}

func TestGenerateHomeworkBeforeRevision(t *testing.T) {
	plan := generate(t, []model.Task{task("hw", 6, 420)}, []model.Exam{exam("ex", 3, 240)}, 60)
	for _, s := range plan.Schedule.Sessions() {
		assert.Equal(t, "hw", s.SourceID)
	}
	assert.Equal(t, 240, plan.Report.ShortfallMinutes(model.SessionExamRevision))
	assert.False(t, plan.Report.Details.ExamDistribution)
	assert.Equal(t, []string{"ex"}, plan.Report.UnderDistributedExams)
}

func TestGenerateFiltersInputs(t *testing.T) {
	done := task("done", 2, 60)
	done.Status = model.TaskCompleted
	plan := generate(t, []model.Task{done, task("open", 2, 60)}, []model.Exam{exam("past", -1, 120), exam("next", 4, 120)}, 480)
	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "open", plan.Tasks[0].ID)
	require.Len(t, plan.Exams, 1)
	assert.Equal(t, "next", plan.Exams[0].ID)
	for _, s := range plan.Schedule.Sessions() {
		assert.NotEqual(t, "done", s.SourceID)
		assert.NotEqual(t, "past", s.SourceID)
	}
}

func TestGenerateRejectsMalformedInput(t *testing.T) {
	_, err := Generate(nil, nil, Options{DailyBudgetMinutes: 30, Reference: monday})
	assert.True(t, errors.Is(err, model.ErrInvalidBudget), "got %v", err)

	_, err = Generate([]model.Task{task("zero", 1, 0)}, nil, Options{DailyBudgetMinutes: 480, Reference: monday})
	assert.True(t, errors.Is(err, model.ErrInvalidTask), "got %v", err)

	noDeadline := task("nd", 1, 30)
	noDeadline.Deadline = model.Task{}.Deadline
	_, err = Generate([]model.Task{noDeadline}, nil, Options{DailyBudgetMinutes: 480, Reference: monday})
	assert.True(t, errors.Is(err, model.ErrInvalidTask), "got %v", err)

	_, err = Generate([]model.Task{task("x", 1, 30)}, []model.Exam{exam("x", 3, 60)}, Options{DailyBudgetMinutes: 480, Reference: monday})
	assert.True(t, errors.Is(err, model.ErrDuplicateID), "got %v", err)
	assert.True(t, model.IsInvalidInput(err))
}

func TestGenerateIsDeterministic(t *testing.T) {
	tasks := []model.Task{task("a", 3, 300), task("b", 1, 200), task("c", 6, 900)}
	exams := []model.Exam{exam("x", 4, 240), exam("y", 9, 0)}
	first := generate(t, tasks, exams, 240)
	second := generate(t, tasks, exams, 240)
	assert.Equal(t, first.Schedule, second.Schedule)
	assert.Equal(t, first.Report, second.Report)
}

func TestGenerateCounterIDs(t *testing.T) {
	plan, err := Generate([]model.Task{task("a", 2, 500)}, nil, Options{DailyBudgetMinutes: 480, Reference: monday, IDs: NewCounterIDs("s")})
	require.NoError(t, err)
	sessions := plan.Schedule.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "s-1", sessions[0].ID)
	assert.Equal(t, "s-2", sessions[1].ID)
}

// TestGenerateInvariants checks budget, deadline and shortfall accounting on
// random workloads.
func TestGenerateInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))
	for round := 0; round < 200; round++ {
		budget := model.MinDailyBudget + rng.IntN(model.MaxDailyBudget-model.MinDailyBudget+1)
		var tasks []model.Task
		for i := 0; i < rng.IntN(8); i++ {
			tasks = append(tasks, task(string(rune('a'+i)), rng.IntN(14)-3, 1+rng.IntN(900)))
		}
		var exams []model.Exam
		for i := 0; i < rng.IntN(4); i++ {
			exams = append(exams, exam(string(rune('A'+i)), rng.IntN(12), rng.IntN(600)))
		}
		plan := generate(t, tasks, exams, budget)

		for _, d := range plan.Schedule.Days {
			require.LessOrEqual(t, d.TotalMinutes, budget)
			require.Equal(t, model.TotalDuration(d.Sessions), d.TotalMinutes)
		}
		require.True(t, plan.Report.Details.StudySessionLimitRespected)

		scheduled := plan.Schedule.ScheduledMinutes()
		missing := map[string]int{}
		for _, s := range plan.Report.Shortfalls {
			missing[s.ID] = s.MissingMinutes
		}
		for _, tk := range tasks {
			require.LessOrEqual(t, scheduled[tk.ID], tk.EstimatedTime)
			require.Equal(t, tk.EstimatedTime-scheduled[tk.ID], missing[tk.ID])
		}
		for _, ex := range plan.Exams {
			require.LessOrEqual(t, scheduled[ex.ID], ex.RequiredMinutes())
			require.Equal(t, ex.RequiredMinutes()-scheduled[ex.ID], missing[ex.ID])
		}
		for _, s := range plan.Schedule.Sessions() {
			require.Positive(t, s.Duration)
			if s.Type == model.SessionHomework {
				for _, tk := range tasks {
					if tk.ID == s.SourceID {
						require.False(t, s.Date.After(tk.Deadline), "session after deadline")
					}
				}
			}
		}
	}
}

func TestExamSpreadWithEnoughCapacity(t *testing.T) {
	for offset := 3; offset <= 12; offset++ {
		plan := generate(t, []model.Task{task("hw", 6, 400)}, []model.Exam{exam("e", offset, 300)}, 480)
		count := 0
		for _, s := range plan.Schedule.Sessions() {
			if s.SourceID == "e" {
				count++
			}
		}
		assert.GreaterOrEqual(t, count, 3, "exam %d days out", offset)
	}
}
