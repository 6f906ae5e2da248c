package model

import (
	"errors"
	"fmt"
	"time"
)

// TaskStatus is the lifecycle state of a homework task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// Task is a piece of homework owned by the caller. Only pending tasks are
// scheduled.
type Task struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Subject       string     `json:"subject"`
	Deadline      time.Time  `json:"deadline"`
	EstimatedTime int        `json:"estimated_time"` // minutes
	Status        TaskStatus `json:"status"`
}

// Validate checks that the task can be handed to the allocator.
func (t Task) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if t.Deadline.IsZero() {
		errs = append(errs, errors.New("deadline is required"))
	}
	if t.EstimatedTime <= 0 {
		errs = append(errs, fmt.Errorf("estimated time must be positive, got %d", t.EstimatedTime))
	}
	if t.Status != TaskPending && t.Status != TaskCompleted {
		errs = append(errs, fmt.Errorf("unknown status %q", t.Status))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidTask, t.ID, errors.Join(errs...))
	}
	return nil
}

// Pending reports whether the task still needs study time.
func (t Task) Pending() bool { return t.Status == TaskPending }
