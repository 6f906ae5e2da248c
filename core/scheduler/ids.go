package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/studyplan/core/model"
)

// KindRescheduled marks keys of sessions produced by Reschedule.
const KindRescheduled = "rescheduled"

// SessionKey is the content a session identity is derived from.
type SessionKey struct {
	Kind     string // session type, or KindRescheduled
	SourceID string
	Origin   string // missed session ID for rescheduled sessions
	Date     time.Time
	Seq      int // position among the sessions produced for the source
}

func (k SessionKey) String() string {
	return strings.Join([]string{
		k.Kind,
		k.SourceID,
		k.Origin,
		model.Day(k.Date).Format(model.DateLayout),
		strconv.Itoa(k.Seq),
	}, "|")
}

// IDGenerator hands out session identities.
type IDGenerator interface {
	SessionID(key SessionKey) string
}

var sessionNamespace = uuid.MustParse("8a3c6f2e-5d41-4b7a-9e0c-2f6d1b9a7c35")

// HashIDs derives a name-based UUID from the session key. Identical inputs
// always yield identical identities.
type HashIDs struct{}

func (HashIDs) SessionID(key SessionKey) string {
	return uuid.NewSHA1(sessionNamespace, []byte(key.String())).String()
}

// CounterIDs numbers sessions in creation order as prefix-1, prefix-2, ...
// It is safe for concurrent use.
type CounterIDs struct {
	Prefix string
	n      atomic.Int64
}

// NewCounterIDs returns a counter starting at 1.
func NewCounterIDs(prefix string) *CounterIDs {
	return &CounterIDs{Prefix: prefix}
}

func (c *CounterIDs) SessionID(SessionKey) string {
	return fmt.Sprintf("%s-%d", c.Prefix, c.n.Add(1))
}

// NewIDGenerator returns the generator registered under strategy.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", "hash":
		return HashIDs{}, nil
	case "counter":
		return NewCounterIDs("s"), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %s", strategy)
	}
}
