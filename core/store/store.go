// Package store defines where generated sessions are kept between
// requests. Implementations live in infra/store; MemoryStore serves tests
// and single-process use.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

// ErrNotFound is returned when a session does not exist for the user.
var ErrNotFound = errors.New("session not found")

// Store persists sessions per user.
type Store interface {
	// ReplaceWeek removes the sessions dated in the seven days starting at
	// weekStart and stores sessions instead.
	ReplaceWeek(ctx context.Context, userID string, weekStart time.Time, sessions []model.Session) error
	// Append stores additional sessions, replacing any with the same ID.
	Append(ctx context.Context, userID string, sessions []model.Session) error
	Get(ctx context.Context, userID, sessionID string) (model.Session, error)
	UpdateStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) error
	// Range returns the sessions dated from..to inclusive, sorted by date
	// then ID.
	Range(ctx context.Context, userID string, from, to time.Time) ([]model.Session, error)
	Close() error
}

// WeekEnd is the exclusive end of the week starting at weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return model.Day(weekStart).AddDate(0, 0, 7)
}

// InRange reports whether d lies within from..to inclusive, by calendar date.
func InRange(d, from, to time.Time) bool {
	d = model.Day(d)
	return !d.Before(model.Day(from)) && !d.After(model.Day(to))
}

// SortSessions orders sessions by date then ID.
func SortSessions(sessions []model.Session) {
	slices.SortFunc(sessions, func(a, b model.Session) int {
		if c := model.Day(a.Date).Compare(model.Day(b.Date)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// ValidateSessions checks every session before it is written.
func ValidateSessions(sessions []model.Session) error {
	for _, s := range sessions {
		if s.ID == "" {
			return fmt.Errorf("%w: id is required", model.ErrInvalidSession)
		}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
