package model

import (
	"errors"
	"fmt"
	"time"
)

// SessionType tells whether a session serves homework or exam revision.
type SessionType string

const (
	SessionHomework     SessionType = "homework"
	SessionExamRevision SessionType = "exam_revision"
)

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	return t == SessionHomework || t == SessionExamRevision
}

// SessionStatus is the state of a session. The planner only creates planned
// and rescheduled sessions; callers mark them completed or missed.
type SessionStatus string

const (
	StatusPlanned     SessionStatus = "planned"
	StatusCompleted   SessionStatus = "completed"
	StatusMissed      SessionStatus = "missed"
	StatusRescheduled SessionStatus = "rescheduled"
)

// Valid reports whether s is a known session status.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusCompleted, StatusMissed, StatusRescheduled:
		return true
	}
	return false
}

// ParseSessionStatus converts a string into a SessionStatus.
func ParseSessionStatus(s string) (SessionStatus, error) {
	st := SessionStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidSession, s)
	}
	return st, nil
}

// Session is one block of study time tied to exactly one task or exam.
type Session struct {
	ID       string        `json:"id"`
	Type     SessionType   `json:"type"`
	SourceID string        `json:"source_id"`
	Title    string        `json:"title"`
	Subject  string        `json:"subject"`
	Date     time.Time     `json:"date"`
	Duration int           `json:"duration"` // minutes
	Status   SessionStatus `json:"status"`
	// Origin is the missed session a rescheduled session replaces.
	Origin string `json:"origin,omitempty"`
}

// Validate checks the fields a stored or incoming session must carry.
func (s Session) Validate() error {
	var errs []error
	if s.SourceID == "" {
		errs = append(errs, errors.New("source id is required"))
	}
	if !s.Type.Valid() {
		errs = append(errs, fmt.Errorf("unknown type %q", s.Type))
	}
	if !s.Status.Valid() {
		errs = append(errs, fmt.Errorf("unknown status %q", s.Status))
	}
	if s.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	if s.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %d", s.Duration))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidSession, s.ID, errors.Join(errs...))
	}
	return nil
}

// TotalDuration sums the durations of sessions.
func TotalDuration(sessions []Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}
