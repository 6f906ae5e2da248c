package model

import (
	"errors"
	"fmt"
	"time"
)

// DefaultExamMinutes is the revision budget of an exam without an estimate.
const DefaultExamMinutes = 240

// Exam is an upcoming exam with a revision-time budget.
type Exam struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Date          time.Time `json:"date"`
	EstimatedTime int       `json:"estimated_time,omitempty"` // minutes, 0 means DefaultExamMinutes
}

// RequiredMinutes returns the revision time to distribute.
func (e Exam) RequiredMinutes() int {
	if e.EstimatedTime == 0 {
		return DefaultExamMinutes
	}
	return e.EstimatedTime
}

// DisplayName is the label used in reports.
func (e Exam) DisplayName() string {
	return e.Subject + " exam"
}

// Validate checks that the exam can be handed to the distributor.
func (e Exam) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if e.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	if e.EstimatedTime < 0 {
		errs = append(errs, fmt.Errorf("estimated time must be positive, got %d", e.EstimatedTime))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidExam, e.ID, errors.Join(errs...))
	}
	return nil
}
