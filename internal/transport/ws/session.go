package ws

import (
	"sync"
	"time"

	"github.com/edu-planet/edu-service/internal/domain"

	"github.com/gorilla/websocket"
)

// session — одно живое подключение одного пользователя к одной комнате.
type session struct {
	conn     *websocket.Conn
	room     string
	userID   domain.UserID
	userType domain.UserType

	sendMu    chan struct{} // сериализация записи в сокет
	closed    chan struct{}
	closeOnce sync.Once
}

func newSession(c *websocket.Conn, room string, userID domain.UserID, userType domain.UserType) *session {
	return &session{
		conn:     c,
		room:     room,
		userID:   userID,
		userType: userType,
		sendMu:   make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
}

func (s *session) Send(msg Message) error {
	s.sendMu <- struct{}{}
	defer func() { <-s.sendMu }()
	s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return s.conn.WriteJSON(msg)
}

// Close допускает конкурентные вызовы: вытеснение из хаба и выход из
// readLoop могут закрывать сессию одновременно.
func (s *session) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return s.conn.Close()
}

func (s *session) Alive() bool {
	select {
	case <-s.closed:
		return false
	default:
		return true
	}
}

func (s *session) UserID() domain.UserID     { return s.userID }
func (s *session) UserType() domain.UserType { return s.userType }
func (s *session) Room() string              { return s.room }
