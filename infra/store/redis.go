package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/studyplan/core/model"
	corestore "github.com/kilianp07/studyplan/core/store"
)

const (
	sessionKeyPrefix = "studyplan:session:"
	dayIndexPrefix   = "studyplan:days:"
)

// sessionRecord is the JSON stored under each session key.
type sessionRecord struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Duration int    `json:"duration"`
	Status   string `json:"status"`
}

// RedisStore keeps each session as a JSON string and indexes a user's
// sessions in a sorted set scored by day number.
type RedisStore struct {
	client *redis.Client
}

var _ corestore.Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(client), nil
}

func sessionKey(userID, id string) string { return sessionKeyPrefix + userID + ":" + id }
func dayIndexKey(userID string) string    { return dayIndexPrefix + userID }

// dayScore numbers calendar days from the Unix epoch.
func dayScore(t time.Time) float64 {
	return float64(model.Day(t).Unix() / 86400)
}

func (s *RedisStore) ReplaceWeek(ctx context.Context, userID string, weekStart time.Time, sessions []model.Session) error {
	if err := corestore.ValidateSessions(sessions); err != nil {
		return err
	}
	last := corestore.WeekEnd(weekStart).AddDate(0, 0, -1)
	old, err := s.idsInRange(ctx, userID, weekStart, last)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	if len(old) > 0 {
		keys := make([]string, len(old))
		members := make([]any, len(old))
		for i, id := range old {
			keys[i] = sessionKey(userID, id)
			members[i] = id
		}
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, dayIndexKey(userID), members...)
	}
	if err := queueSessions(ctx, pipe, userID, sessions); err != nil {
		return err
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Append(ctx context.Context, userID string, sessions []model.Session) error {
	if err := corestore.ValidateSessions(sessions); err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	if err := queueSessions(ctx, pipe, userID, sessions); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, userID, sessionID string) (model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID, sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, fmt.Errorf("%w: %s", corestore.ErrNotFound, sessionID)
		}
		return model.Session{}, err
	}
	return decodeSession(data)
}

// UpdateStatus rewrites the session under WATCH so concurrent writers
// retry instead of overwriting each other.
func (s *RedisStore) UpdateStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrInvalidSession, status)
	}
	key := sessionKey(userID, sessionID)
	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return fmt.Errorf("%w: %s", corestore.ErrNotFound, sessionID)
				}
				return err
			}
			sess, err := decodeSession(data)
			if err != nil {
				return err
			}
			sess.Status = status
			payload, err := json.Marshal(toRecord(sess))
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, 0)
				return nil
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update status %s: too much contention", sessionID)
}

func (s *RedisStore) Range(ctx context.Context, userID string, from, to time.Time) ([]model.Session, error) {
	ids, err := s.idsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	res := []model.Session{}
	if len(ids) == 0 {
		return res, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(userID, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			// index entry without a session; skip it
			continue
		}
		sess, err := decodeSession([]byte(str))
		if err != nil {
			return nil, err
		}
		res = append(res, sess)
	}
	corestore.SortSessions(res)
	return res, nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) idsInRange(ctx context.Context, userID string, from, to time.Time) ([]string, error) {
	return s.client.ZRangeByScore(ctx, dayIndexKey(userID), &redis.ZRangeBy{
		Min: strconv.FormatFloat(dayScore(from), 'f', 0, 64),
		Max: strconv.FormatFloat(dayScore(to), 'f', 0, 64),
	}).Result()
}

func queueSessions(ctx context.Context, pipe redis.Pipeliner, userID string, sessions []model.Session) error {
	for _, sess := range sessions {
		data, err := json.Marshal(toRecord(sess))
		if err != nil {
			return err
		}
		pipe.Set(ctx, sessionKey(userID, sess.ID), data, 0)
		pipe.ZAdd(ctx, dayIndexKey(userID), redis.Z{Score: dayScore(sess.Date), Member: sess.ID})
	}
	return nil
}

func toRecord(sess model.Session) sessionRecord {
	return sessionRecord{
		ID:       sess.ID,
		Type:     string(sess.Type),
		SourceID: sess.SourceID,
		Title:    sess.Title,
		Subject:  sess.Subject,
		Date:     dayKey(sess.Date),
		Duration: sess.Duration,
		Status:   string(sess.Status),
	}
}

func decodeSession(data []byte) (model.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Session{}, fmt.Errorf("decode session: %w", err)
	}
	date, err := model.ParseDate(rec.Date)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{
		ID:       rec.ID,
		Type:     model.SessionType(rec.Type),
		SourceID: rec.SourceID,
		Title:    rec.Title,
		Subject:  rec.Subject,
		Date:     date,
		Duration: rec.Duration,
		Status:   model.SessionStatus(rec.Status),
	}, nil
}
