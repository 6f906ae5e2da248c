package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/studyplan/core/model"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]model.Session // user -> session ID -> session
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]model.Session{}}
}

func (s *MemoryStore) ReplaceWeek(_ context.Context, userID string, weekStart time.Time, sessions []model.Session) error {
	if err := ValidateSessions(sessions); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.user(userID)
	last := WeekEnd(weekStart).AddDate(0, 0, -1)
	for id, sess := range user {
		if InRange(sess.Date, weekStart, last) {
			delete(user, id)
		}
	}
	for _, sess := range sessions {
		user[sess.ID] = normalize(sess)
	}
	return nil
}

func (s *MemoryStore) Append(_ context.Context, userID string, sessions []model.Session) error {
	if err := ValidateSessions(sessions); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.user(userID)
	for _, sess := range sessions {
		user[sess.ID] = normalize(sess)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID, sessionID string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.data[userID][sessionID]
	if !ok {
		return model.Session{}, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return sess, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, userID, sessionID string, status model.SessionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrInvalidSession, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[userID][sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	sess.Status = status
	s.data[userID][sessionID] = sess
	return nil
}

func (s *MemoryStore) Range(_ context.Context, userID string, from, to time.Time) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Session{}
	for _, sess := range s.data[userID] {
		if InRange(sess.Date, from, to) {
			out = append(out, sess)
		}
	}
	SortSessions(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// user returns the session map of userID, creating it. Callers hold mu.
func (s *MemoryStore) user(userID string) map[string]model.Session {
	m, ok := s.data[userID]
	if !ok {
		m = map[string]model.Session{}
		s.data[userID] = m
	}
	return m
}

func normalize(sess model.Session) model.Session {
	sess.Date = model.Day(sess.Date)
	return sess
}
