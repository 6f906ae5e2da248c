// Package storetest holds the behaviour every store.Store must show. Each
// implementation runs it from its own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/store"
)

// Monday is the week used by the suite.
var Monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func session(id, source string, offset, minutes int) model.Session {
	return model.Session{
		ID:       id,
		Type:     model.SessionHomework,
		SourceID: source,
		Title:    "Essay",
		Subject:  "History",
		Date:     Monday.AddDate(0, 0, offset),
		Duration: minutes,
		Status:   model.StatusPlanned,
	}
}

// Run exercises newStore. Every subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("replace week", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.ReplaceWeek(ctx, "u1", Monday, []model.Session{
			session("a", "t1", 0, 30),
			session("b", "t1", 1, 30),
		}))
		require.NoError(t, s.Append(ctx, "u1", []model.Session{session("next", "t1", 7, 20)}))
		require.NoError(t, s.ReplaceWeek(ctx, "u1", Monday, []model.Session{session("c", "t2", 2, 60)}))

		got, err := s.Range(ctx, "u1", Monday, Monday.AddDate(0, 0, 7))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "c", got[0].ID)
		assert.Equal(t, "next", got[1].ID)
		_, err = s.Get(ctx, "u1", "a")
		assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	})

	t.Run("users are isolated", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.ReplaceWeek(ctx, "u1", Monday, []model.Session{session("a", "t1", 0, 30)}))
		require.NoError(t, s.ReplaceWeek(ctx, "u2", Monday, nil))
		got, err := s.Range(ctx, "u2", Monday, Monday.AddDate(0, 0, 6))
		require.NoError(t, err)
		assert.Empty(t, got)
		_, err = s.Get(ctx, "u2", "a")
		assert.True(t, errors.Is(err, store.ErrNotFound))
		_, err = s.Get(ctx, "u1", "a")
		assert.NoError(t, err)
	})

	t.Run("range is inclusive and sorted", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Append(ctx, "u1", []model.Session{
			session("z", "t1", 3, 10),
			session("b", "t1", 1, 10),
			session("a", "t2", 3, 10),
			session("c", "t1", 5, 10),
		}))
		got, err := s.Range(ctx, "u1", Monday.AddDate(0, 0, 1), Monday.AddDate(0, 0, 3))
		require.NoError(t, err)
		ids := make([]string, len(got))
		for i, g := range got {
			ids[i] = g.ID
		}
		assert.Equal(t, []string{"b", "a", "z"}, ids)
		assert.True(t, got[0].Date.Equal(Monday.AddDate(0, 0, 1)))
	})

	t.Run("get round trips", func(t *testing.T) {
		s := newStore(t)
		want := session("a", "e1", 2, 75)
		want.Type = model.SessionExamRevision
		want.Status = model.StatusRescheduled
		want.Origin = "m1"
		require.NoError(t, s.Append(ctx, "u1", []model.Session{want}))
		got, err := s.Get(ctx, "u1", "a")
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.SourceID, got.SourceID)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.Subject, got.Subject)
		assert.True(t, want.Date.Equal(got.Date))
		assert.Equal(t, want.Duration, got.Duration)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Origin, got.Origin)
	})

	t.Run("update status", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Append(ctx, "u1", []model.Session{session("a", "t1", 0, 30)}))
		require.NoError(t, s.UpdateStatus(ctx, "u1", "a", model.StatusMissed))
		got, err := s.Get(ctx, "u1", "a")
		require.NoError(t, err)
		assert.Equal(t, model.StatusMissed, got.Status)

		err = s.UpdateStatus(ctx, "u1", "missing", model.StatusCompleted)
		assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
		err = s.UpdateStatus(ctx, "u1", "a", model.SessionStatus("skipped"))
		assert.True(t, errors.Is(err, model.ErrInvalidSession), "got %v", err)
	})

	t.Run("rejects invalid sessions", func(t *testing.T) {
		s := newStore(t)
		bad := session("a", "t1", 0, 0)
		err := s.Append(ctx, "u1", []model.Session{bad})
		assert.True(t, errors.Is(err, model.ErrInvalidSession), "got %v", err)
		err = s.ReplaceWeek(ctx, "u1", Monday, []model.Session{bad})
		assert.True(t, errors.Is(err, model.ErrInvalidSession), "got %v", err)
	})
}
