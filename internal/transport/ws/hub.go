package ws

import (
	"sync"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/metrics"
)

type Conn interface {
	Send(msg Message) error
	Close() error
	UserID() domain.UserID
	UserType() domain.UserType
	Room() string
	Alive() bool
}

// Hub — реестр живых сессий: room -> упорядоченный список подключений.
// Все мутации идут через методы под одним мьютексом, поэтому вытеснение
// старой сессии и регистрация новой — один неделимый шаг.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string][]Conn
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string][]Conn)}
}

// Join вытесняет прежнюю сессию того же пользователя (если есть) и
// регистрирует новую. На (room, user) остаётся не больше одной живой сессии.
func (h *Hub) Join(c Conn) (evicted Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := c.Room()
	list := h.rooms[room]
	for i, old := range list {
		if old.UserID() == c.UserID() {
			evicted = old
			list = append(list[:i], list[i+1:]...)
			metrics.Evictions.Inc()
			break
		}
	}
	h.rooms[room] = append(list, c)

	if evicted != nil {
		_ = evicted.Close()
	}
	return evicted
}

func (h *Hub) Leave(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := c.Room()
	list := h.rooms[room]
	for i, s := range list {
		if s == c {
			h.rooms[room] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

// Snapshot возвращает число живых сессий комнаты и id их пользователей.
func (h *Hub) Snapshot(room string) (int, []domain.UserID) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := h.rooms[room]
	ids := make([]domain.UserID, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.UserID())
	}
	return len(list), ids
}

// Broadcast шлёт payload всем живым сессиям комнаты. Доставка best-effort:
// не подключённые на момент отправки просто пропускаются.
func (h *Hub) Broadcast(room string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.rooms[room] {
		if !s.Alive() {
			continue
		}
		if err := s.Send(msg); err == nil {
			metrics.DeliveredTotal.Inc()
		}
	}
}

// SendToUsers шлёт payload сессиям перечисленных пользователей комнаты.
func (h *Hub) SendToUsers(room string, users []domain.UserID, msg Message) {
	if len(users) == 0 {
		return
	}
	want := make(map[domain.UserID]struct{}, len(users))
	for _, id := range users {
		want[id] = struct{}{}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.rooms[room] {
		if _, ok := want[s.UserID()]; !ok {
			continue
		}
		if !s.Alive() {
			continue
		}
		if err := s.Send(msg); err == nil {
			metrics.DeliveredTotal.Inc()
		}
	}
}
