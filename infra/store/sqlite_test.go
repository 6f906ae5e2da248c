package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/kilianp07/studyplan/core/model"
	corestore "github.com/kilianp07/studyplan/core/store"
	"github.com/kilianp07/studyplan/core/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) corestore.Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sess := model.Session{ID: "a", Type: model.SessionHomework, SourceID: "t1", Date: storetest.Monday, Duration: 30, Status: model.StatusPlanned}
	if err := s.Append(context.Background(), "u1", []model.Session{sess}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	got, err := s.Get(context.Background(), "u1", "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Duration != 30 || !got.Date.Equal(storetest.Monday) {
		t.Fatalf("unexpected session %#v", got)
	}
}

func TestSQLiteStore_AddsOriginColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE sessions (
        user_id TEXT NOT NULL, id TEXT NOT NULL, type TEXT NOT NULL,
        source_id TEXT NOT NULL, title TEXT NOT NULL, subject TEXT NOT NULL,
        day TEXT NOT NULL, duration INTEGER NOT NULL, status TEXT NOT NULL,
        PRIMARY KEY (user_id, id));
    INSERT INTO sessions VALUES ('u1', 'a', 'homework', 't1', '', '', '2025-01-06', 30, 'missed');`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = db.Close()

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	defer func() { _ = s.Close() }()
	got, err := s.Get(context.Background(), "u1", "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Origin != "" || got.Status != model.StatusMissed {
		t.Fatalf("unexpected session %#v", got)
	}
	sess := model.Session{ID: "b", Type: model.SessionHomework, SourceID: "t1", Date: storetest.Monday, Duration: 30, Status: model.StatusRescheduled, Origin: "a"}
	if err := s.Append(context.Background(), "u1", []model.Session{sess}); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err = s.Get(context.Background(), "u1", "b")
	if err != nil || got.Origin != "a" {
		t.Fatalf("origin not persisted: %#v %v", got, err)
	}
}

func TestNewFromConfig(t *testing.T) {
	s, err := New(factoryConfig("", nil))
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := s.(*corestore.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", s)
	}
	s, err = New(factoryConfig("sqlite", map[string]any{"path": filepath.Join(t.TempDir(), "x.db")}))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	_ = s.Close()
	if _, err := New(factoryConfig("postgres", nil)); err == nil {
		t.Fatalf("expected unknown type error")
	}
}
