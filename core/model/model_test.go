package model

import (
	"errors"
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-01-06", "2025-01-06"}, // Monday
		{"2025-01-08", "2025-01-06"},
		{"2025-01-12", "2025-01-06"}, // Sunday
		{"2025-01-13", "2025-01-13"},
	}
	for _, c := range cases {
		in, _ := ParseDate(c.in)
		if got := WeekStart(in).Format(DateLayout); got != c.want {
			t.Errorf("WeekStart(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	b := time.Date(2025, 3, 4, 0, 15, 0, 0, time.UTC)
	if d := DaysBetween(a, b); d != 3 {
		t.Fatalf("expected 3 got %d", d)
	}
	if d := DaysBetween(b, a); d != -3 {
		t.Fatalf("expected -3 got %d", d)
	}
}

func TestTaskValidate(t *testing.T) {
	ok := Task{ID: "t1", Deadline: time.Now(), EstimatedTime: 30, Status: TaskPending}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := Task{ID: "t2", Status: "later"}
	err := bad.Validate()
	if !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if !IsInvalidInput(err) {
		t.Fatalf("expected invalid input classification")
	}
}

func TestExamDefaults(t *testing.T) {
	e := Exam{ID: "e1", Subject: "Maths", Date: time.Now()}
	if e.RequiredMinutes() != DefaultExamMinutes {
		t.Fatalf("expected default minutes")
	}
	if e.DisplayName() != "Maths exam" {
		t.Fatalf("unexpected name %q", e.DisplayName())
	}
	if err := (Exam{ID: "e2", Date: time.Now(), EstimatedTime: -5}).Validate(); !errors.Is(err, ErrInvalidExam) {
		t.Fatalf("expected ErrInvalidExam, got %v", err)
	}
}

func TestValidateBudget(t *testing.T) {
	for _, m := range []int{60, 480, 960} {
		if err := ValidateBudget(m); err != nil {
			t.Errorf("budget %d: %v", m, err)
		}
	}
	for _, m := range []int{0, 59, 961} {
		if err := ValidateBudget(m); !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("budget %d: expected ErrInvalidBudget, got %v", m, err)
		}
	}
}

func TestParseSessionStatus(t *testing.T) {
	if st, err := ParseSessionStatus("missed"); err != nil || st != StatusMissed {
		t.Fatalf("parse missed: %v %v", st, err)
	}
	if _, err := ParseSessionStatus("skipped"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
