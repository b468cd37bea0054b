package ws

import (
	"github.com/edu-planet/edu-service/internal/domain"
)

// Router вычисляет аудиторию события и раздаёт payload живым сессиям.
// Ответы собственного audience не имеют — оба домена чата гоняют их через
// тот же resolveTargets по родительскому сообщению.
type Router struct {
	hub *Hub
}

func NewRouter(hub *Hub) *Router {
	return &Router{hub: hub}
}

// resolveTargets возвращает nil для everyone (вся комната), иначе —
// отправителя плюс адресатов. Для audience=alone адресат известен только
// в момент отправки (в хранилище он не дублируется).
func resolveTargets(m *domain.ChatMessage) []domain.UserID {
	if m.Audience == domain.AudienceEveryone {
		return nil
	}

	seen := make(map[domain.UserID]struct{}, len(m.Recipients)+1)
	targets := make([]domain.UserID, 0, len(m.Recipients)+1)
	for _, id := range append([]domain.UserID{m.SenderID}, m.Recipients...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}
	return targets
}

// DeliverMessage раздаёт событие по audience самого сообщения.
// acting (если задана) получает копию напрямую — синхронное подтверждение
// отправителю, даже когда его нет в списке адресатов.
func (r *Router) DeliverMessage(m *domain.ChatMessage, acting Conn, msg Message) {
	r.deliver(m.Room, resolveTargets(m), acting, msg)
}

// DeliverAnswer раздаёт событие ответа по audience родительского сообщения.
func (r *Router) DeliverAnswer(parent *domain.ChatMessage, acting Conn, msg Message) {
	r.deliver(parent.Room, resolveTargets(parent), acting, msg)
}

func (r *Router) deliver(room string, targets []domain.UserID, acting Conn, msg Message) {
	if targets == nil {
		r.hub.Broadcast(room, msg)
		return
	}

	if acting != nil && acting.Alive() {
		_ = acting.Send(msg)
		// не дублируем действующей сессии через общий список
		filtered := targets[:0:0]
		for _, id := range targets {
			if id != acting.UserID() {
				filtered = append(filtered, id)
			}
		}
		targets = filtered
	}

	r.hub.SendToUsers(room, targets, msg)
}

// AnnouncePresence рассылает комнате актуальное число активных пользователей.
func (r *Router) AnnouncePresence(room string) {
	total, ids := r.hub.Snapshot(room)
	r.hub.Broadcast(room, Message{
		Type: TypePresence,
		Payload: PresencePayload{
			TotalActive:    total,
			IDsActiveUsers: ids,
		},
	})
}
