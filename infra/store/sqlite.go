package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/studyplan/core/model"
	corestore "github.com/kilianp07/studyplan/core/store"
)

// SQLiteStore persists sessions to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ corestore.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS sessions (
        user_id TEXT NOT NULL,
        id TEXT NOT NULL,
        type TEXT NOT NULL,
        source_id TEXT NOT NULL,
        title TEXT NOT NULL,
        subject TEXT NOT NULL,
        day TEXT NOT NULL,
        duration INTEGER NOT NULL,
        status TEXT NOT NULL,
        origin TEXT NOT NULL DEFAULT '',
        PRIMARY KEY (user_id, id)
    );
    CREATE INDEX IF NOT EXISTS sessions_user_day ON sessions (user_id, day);`
	if err := migrate(db, schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// migrate creates the schema and adds the origin column to databases
// written before it existed.
func migrate(db *sql.DB, schema string) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(`ALTER TABLE sessions ADD COLUMN origin TEXT NOT NULL DEFAULT ''`)
	if err != nil && !strings.Contains(err.Error(), "duplicate column") {
		return err
	}
	return nil
}

// ReplaceWeek deletes and inserts in one transaction.
func (s *SQLiteStore) ReplaceWeek(ctx context.Context, userID string, weekStart time.Time, sessions []model.Session) error {
	if err := corestore.ValidateSessions(sessions); err != nil {
		return err
	}
	last := corestore.WeekEnd(weekStart).AddDate(0, 0, -1)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM sessions WHERE user_id = ? AND day >= ? AND day <= ?`,
			userID, dayKey(weekStart), dayKey(last)); err != nil {
			return err
		}
		return upsert(ctx, tx, userID, sessions)
	})
}

func (s *SQLiteStore) Append(ctx context.Context, userID string, sessions []model.Session) error {
	if err := corestore.ValidateSessions(sessions); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return upsert(ctx, tx, userID, sessions)
	})
}

func (s *SQLiteStore) Get(ctx context.Context, userID, sessionID string) (model.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, source_id, title, subject, day, duration, status, origin
         FROM sessions WHERE user_id = ? AND id = ?`, userID, sessionID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, fmt.Errorf("%w: %s", corestore.ErrNotFound, sessionID)
	}
	return sess, err
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrInvalidSession, status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ? WHERE user_id = ? AND id = ?`,
		string(status), userID, sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", corestore.ErrNotFound, sessionID)
	}
	return nil
}

func (s *SQLiteStore) Range(ctx context.Context, userID string, from, to time.Time) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, source_id, title, subject, day, duration, status, origin
         FROM sessions WHERE user_id = ? AND day >= ? AND day <= ?
         ORDER BY day, id`, userID, dayKey(from), dayKey(to))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []model.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("rollback: %v (cause: %w)", rerr, err)
		}
		return err
	}
	return tx.Commit()
}

func upsert(ctx context.Context, tx *sql.Tx, userID string, sessions []model.Session) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO sessions (user_id, id, type, source_id, title, subject, day, duration, status, origin)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, sess := range sessions {
		if _, err := stmt.ExecContext(ctx, userID, sess.ID, string(sess.Type), sess.SourceID,
			sess.Title, sess.Subject, dayKey(sess.Date), sess.Duration, string(sess.Status), sess.Origin); err != nil {
			return fmt.Errorf("insert session %s: %w", sess.ID, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (model.Session, error) {
	var (
		sess               model.Session
		typ, status, dayID string
	)
	if err := row.Scan(&sess.ID, &typ, &sess.SourceID, &sess.Title, &sess.Subject, &dayID, &sess.Duration, &status, &sess.Origin); err != nil {
		return model.Session{}, err
	}
	date, err := model.ParseDate(dayID)
	if err != nil {
		return model.Session{}, err
	}
	sess.Type = model.SessionType(typ)
	sess.Status = model.SessionStatus(status)
	sess.Date = date
	return sess, nil
}

func dayKey(t time.Time) string { return model.Day(t).Format(model.DateLayout) }
