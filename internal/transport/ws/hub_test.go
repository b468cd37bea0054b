package ws

import (
	"sync"
	"testing"

	"github.com/edu-planet/edu-service/internal/domain"
)

// fakeConn — сессия для тестов хаба и роутера.
type fakeConn struct {
	mu     sync.Mutex
	userID domain.UserID
	room   string
	closed bool
	sent   []Message
}

func newFakeConn(userID domain.UserID, room string) *fakeConn {
	return &fakeConn{userID: userID, room: room}
}

func (c *fakeConn) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) UserID() domain.UserID     { return c.userID }
func (c *fakeConn) UserType() domain.UserType { return domain.UserStudent }
func (c *fakeConn) Room() string              { return c.room }

func (c *fakeConn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *fakeConn) received() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.sent))
	copy(out, c.sent)
	return out
}

func TestHub_JoinLeave(t *testing.T) {
	h := NewHub()
	room := "group:10A"

	a := newFakeConn(1, room)
	b := newFakeConn(2, room)
	h.Join(a)
	h.Join(b)

	total, ids := h.Snapshot(room)
	if total != 2 {
		t.Fatalf("expected 2 sessions, got %d", total)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}

	h.Leave(a)
	total, _ = h.Snapshot(room)
	if total != 1 {
		t.Fatalf("after leave expected 1 session, got %d", total)
	}
}

func TestHub_JoinEvictsSameUser(t *testing.T) {
	h := NewHub()
	room := "group:10A"

	old := newFakeConn(1, room)
	h.Join(old)

	fresh := newFakeConn(1, room)
	evicted := h.Join(fresh)

	if evicted != Conn(old) {
		t.Fatalf("expected old session to be evicted")
	}
	if old.Alive() {
		t.Fatalf("evicted session must be closed")
	}

	// на (room, user) остаётся ровно одна сессия
	total, ids := h.Snapshot(room)
	if total != 1 {
		t.Fatalf("expected exactly 1 session, got %d", total)
	}
	if ids[0] != 1 {
		t.Fatalf("expected user 1, got %v", ids)
	}
}

func TestHub_EvictionDoesNotTouchOtherRooms(t *testing.T) {
	h := NewHub()

	groupConn := newFakeConn(1, "group:10A")
	subjectConn := newFakeConn(1, "subject:5")
	h.Join(groupConn)
	h.Join(subjectConn)

	// переподключение в группу не трогает сессию предмета
	h.Join(newFakeConn(1, "group:10A"))

	if !subjectConn.Alive() {
		t.Fatalf("subject session must survive group reconnect")
	}
	if total, _ := h.Snapshot("subject:5"); total != 1 {
		t.Fatalf("subject room lost its session")
	}
}

func TestHub_BroadcastSkipsDead(t *testing.T) {
	h := NewHub()
	room := "group:10A"

	alive := newFakeConn(1, room)
	dead := newFakeConn(2, room)
	h.Join(alive)
	h.Join(dead)
	_ = dead.Close()

	h.Broadcast(room, Message{Type: TypeMessage})

	if got := len(alive.received()); got != 1 {
		t.Fatalf("alive session: expected 1 message, got %d", got)
	}
	if got := len(dead.received()); got != 0 {
		t.Fatalf("dead session must not receive, got %d", got)
	}
}

func TestHub_SendToUsers(t *testing.T) {
	h := NewHub()
	room := "subject:5"

	a := newFakeConn(1, room)
	b := newFakeConn(2, room)
	c := newFakeConn(3, room)
	h.Join(a)
	h.Join(b)
	h.Join(c)

	h.SendToUsers(room, []domain.UserID{1, 3}, Message{Type: TypeMessage})

	if len(a.received()) != 1 || len(c.received()) != 1 {
		t.Fatalf("targeted users must receive the message")
	}
	if len(b.received()) != 0 {
		t.Fatalf("user 2 is not a target, got %d messages", len(b.received()))
	}
}
