package scheduler

import (
	"testing"

	"github.com/google/uuid"
)

func TestHashIDsStable(t *testing.T) {
	k := SessionKey{Kind: "homework", SourceID: "t1", Date: day(1), Seq: 0}
	a := HashIDs{}.SessionID(k)
	if a != (HashIDs{}).SessionID(k) {
		t.Fatalf("ids differ")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("not a uuid: %v", err)
	}
	k.Seq = 1
	if a == (HashIDs{}).SessionID(k) {
		t.Fatalf("sequence ignored")
	}
}

func TestNewIDGenerator(t *testing.T) {
	if _, err := NewIDGenerator("hash"); err != nil {
		t.Fatalf("hash: %v", err)
	}
	g, err := NewIDGenerator("counter")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	if id := g.SessionID(SessionKey{}); id != "s-1" {
		t.Fatalf("unexpected id %s", id)
	}
	if _, err := NewIDGenerator("random"); err == nil {
		t.Fatalf("expected error")
	}
}
