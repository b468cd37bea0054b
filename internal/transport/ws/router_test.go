package ws

import (
	"testing"

	"github.com/edu-planet/edu-service/internal/domain"
)

func roomWith(t *testing.T, h *Hub, room string, users ...domain.UserID) map[domain.UserID]*fakeConn {
	t.Helper()
	conns := make(map[domain.UserID]*fakeConn, len(users))
	for _, id := range users {
		c := newFakeConn(id, room)
		h.Join(c)
		conns[id] = c
	}
	return conns
}

func TestRouter_DeliverEveryone(t *testing.T) {
	h := NewHub()
	r := NewRouter(h)
	room := "group:10A"
	conns := roomWith(t, h, room, 1, 2, 3)

	m := &domain.ChatMessage{Room: room, SenderID: 1, Audience: domain.AudienceEveryone}
	r.DeliverMessage(m, conns[1], Message{Type: TypeMessage})

	for id, c := range conns {
		if len(c.received()) != 1 {
			t.Fatalf("user %d: expected 1 message, got %d", id, len(c.received()))
		}
	}
}

func TestRouter_DeliverSeveral(t *testing.T) {
	h := NewHub()
	r := NewRouter(h)
	room := "group:10A"
	conns := roomWith(t, h, room, 1, 2, 3, 4)

	m := &domain.ChatMessage{
		Room:       room,
		SenderID:   1,
		Audience:   domain.AudienceSeveral,
		Recipients: []domain.UserID{2, 3},
	}
	r.DeliverMessage(m, conns[1], Message{Type: TypeMessage})

	// отправитель получает ровно одну копию, адресаты — по одной,
	// посторонний — ничего
	for _, id := range []domain.UserID{1, 2, 3} {
		if got := len(conns[id].received()); got != 1 {
			t.Fatalf("user %d: expected 1 message, got %d", id, got)
		}
	}
	if got := len(conns[4].received()); got != 0 {
		t.Fatalf("user 4 is outside the audience, got %d", got)
	}
}

func TestRouter_DeliverAlone(t *testing.T) {
	h := NewHub()
	r := NewRouter(h)
	room := "subject:5"
	conns := roomWith(t, h, room, 1, 2, 3)

	m := &domain.ChatMessage{
		Room:       room,
		SenderID:   1,
		Audience:   domain.AudienceAlone,
		Recipients: []domain.UserID{2},
	}
	r.DeliverMessage(m, conns[1], Message{Type: TypeMessage})

	if len(conns[1].received()) != 1 || len(conns[2].received()) != 1 {
		t.Fatalf("sender and the single recipient must receive the message")
	}
	if len(conns[3].received()) != 0 {
		t.Fatalf("third party must not see audience=alone message")
	}
}

func TestRouter_AnswerInheritsParentAudience(t *testing.T) {
	h := NewHub()
	r := NewRouter(h)
	room := "group:10A"
	conns := roomWith(t, h, room, 1, 2, 3)

	// родитель — alone от 1 к 2; отвечает пользователь 2
	parent := &domain.ChatMessage{
		Room:       room,
		SenderID:   1,
		Audience:   domain.AudienceAlone,
		Recipients: []domain.UserID{2},
	}
	r.DeliverAnswer(parent, conns[2], Message{Type: TypeAnswer})

	// ответ видят обе стороны переписки: автор родителя и отвечающий
	if len(conns[1].received()) != 1 {
		t.Fatalf("parent sender must receive the answer")
	}
	if len(conns[2].received()) != 1 {
		t.Fatalf("answering user must receive own answer")
	}
	if len(conns[3].received()) != 0 {
		t.Fatalf("answer must stay inside parent audience")
	}
}

func TestRouter_ActingOfflineStillDelivers(t *testing.T) {
	h := NewHub()
	r := NewRouter(h)
	room := "group:10A"
	conns := roomWith(t, h, room, 2)

	// отправитель не подключён (HTTP-сценарий): acting=nil
	m := &domain.ChatMessage{
		Room:       room,
		SenderID:   1,
		Audience:   domain.AudienceSeveral,
		Recipients: []domain.UserID{2},
	}
	r.DeliverMessage(m, nil, Message{Type: TypeMessage})

	if len(conns[2].received()) != 1 {
		t.Fatalf("recipient must receive even when sender is offline")
	}
}

func TestRouter_AnnouncePresence(t *testing.T) {
	h := NewHub()
	r := NewRouter(h)
	room := "group:10A"
	conns := roomWith(t, h, room, 1, 2)

	r.AnnouncePresence(room)

	got := conns[1].received()
	if len(got) != 1 || got[0].Type != TypePresence {
		t.Fatalf("expected presence event, got %+v", got)
	}
	p, ok := got[0].Payload.(PresencePayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", got[0].Payload)
	}
	if p.TotalActive != 2 || len(p.IDsActiveUsers) != 2 {
		t.Fatalf("presence payload mismatch: %+v", p)
	}
}
