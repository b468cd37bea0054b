package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/metrics"
	"github.com/edu-planet/edu-service/internal/security"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type TokenParser interface {
	ParseAndValidate(token string) (*security.AccessClaims, error)
}

type ChatSvc interface {
	Snapshot(ctx context.Context, room string, userID domain.UserID, limit int) ([]domain.ChatMessage, map[int64][]domain.Answer, error)
	PostMessage(ctx context.Context, m *domain.ChatMessage) error
	PostAnswer(ctx context.Context, a *domain.Answer) (*domain.ChatMessage, error)
	EditMessage(ctx context.Context, id int64, text string, audience domain.Audience, recipients []domain.UserID) (*domain.ChatMessage, error)
	EditAnswer(ctx context.Context, id int64, text string) (*domain.Answer, *domain.ChatMessage, error)
	RemoveMessage(ctx context.Context, id int64) (*domain.ChatMessage, error)
	RemoveAnswer(ctx context.Context, id int64) (*domain.Answer, *domain.ChatMessage, error)
}

type RosterSvc interface {
	GroupRoom(ctx context.Context, name string) (string, []domain.User, error)
	SubjectRoom(ctx context.Context, id int64) (string, []domain.User, error)
}

type Server struct {
	upgrader  websocket.Upgrader
	hub       *Hub
	router    *Router
	chatSvc   ChatSvc
	rosterSvc RosterSvc
	tokens    TokenParser

	pingEvery    time.Duration
	snapshotSize int
}

func NewServer(hub *Hub, router *Router, chat ChatSvc, roster RosterSvc, tokens TokenParser) *Server {
	return &Server{
		hub:       hub,
		router:    router,
		chatSvc:   chat,
		rosterSvc: roster,
		tokens:    tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery:    15 * time.Second,
		snapshotSize: 50,
	}
}

// WS endpoint: GET /ws/groups/{name}?access_token=...
func (s *Server) HandleGroupWS(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, "missing group name", http.StatusBadRequest)
		return
	}

	room, users, err := s.rosterSvc.GroupRoom(r.Context(), name)
	if err != nil {
		slog.Warn("ws group roster failed", "group", name, "err", err)
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}
	s.serve(w, r, room, "group", users, claims)
}

// WS endpoint: GET /ws/subjects/{id}?access_token=...
func (s *Server) HandleSubjectWS(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid subject id", http.StatusBadRequest)
		return
	}

	room, users, err := s.rosterSvc.SubjectRoom(r.Context(), id)
	if err != nil {
		slog.Warn("ws subject roster failed", "subject", id, "err", err)
		http.Error(w, "subject not found", http.StatusNotFound)
		return
	}
	s.serve(w, r, room, "subject", users, claims)
}

// authenticate проверяет access_token до регистрации сессии:
// при отказе никакой частичной регистрации не происходит.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*security.AccessClaims, bool) {
	token := strings.TrimSpace(r.URL.Query().Get("access_token"))
	if token == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return nil, false
	}
	claims, err := s.tokens.ParseAndValidate(token)
	if err != nil {
		http.Error(w, "invalid access_token", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, room, domainLabel string, users []domain.User, claims *security.AccessClaims) {
	userID, err := security.SubjectAsUserID(claims)
	if err != nil {
		http.Error(w, "invalid access_token", http.StatusUnauthorized)
		return
	}
	userType := domain.UserType(claims.UserType)
	if !userType.Valid() {
		userType = domain.UserStudent
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "room", room, "err", err)
		return
	}

	sess := newSession(conn, room, userID, userType)

	if evicted := s.hub.Join(sess); evicted != nil {
		slog.Debug("ws evicted stale session", "room", room, "user", userID)
	}
	metrics.ActiveSessions.WithLabelValues(domainLabel).Inc()

	if err := s.sendSnapshot(r.Context(), sess, users); err != nil {
		slog.Warn("ws send snapshot failed", "room", room, "user", userID, "err", err)
	}
	s.router.AnnouncePresence(room)

	go s.writeLoop(r.Context(), sess)
	s.readLoop(r.Context(), sess)

	// Leave обязан выполняться на любом пути выхода, иначе мёртвая сессия
	// останется в реестре и будет молча глотать отправки.
	s.hub.Leave(sess)
	metrics.ActiveSessions.WithLabelValues(domainLabel).Dec()
	s.router.AnnouncePresence(room)

	if err := sess.Close(); err != nil {
		slog.Debug("ws close failed", "room", room, "user", userID, "err", err)
	}
}

// sendSnapshot отдаёт подключившемуся свежие сообщения, отфильтрованные по
// его правам видимости, и список участников комнаты.
func (s *Server) sendSnapshot(ctx context.Context, sess *session, users []domain.User) error {
	msgs, answers, err := s.chatSvc.Snapshot(ctx, sess.room, sess.userID, s.snapshotSize)
	if err != nil {
		return err
	}

	payload := SnapshotPayload{
		Room:     sess.room,
		Messages: make([]MessageItem, 0, len(msgs)),
		Users:    make([]UserItem, 0, len(users)),
	}
	for i := range msgs {
		payload.Messages = append(payload.Messages, toMessageItem(&msgs[i], answers[msgs[i].ID]))
	}
	for i := range users {
		payload.Users = append(payload.Users, toUserItem(&users[i]))
	}

	return sess.Send(Message{Type: TypeSnapshot, Payload: payload})
}

func (s *Server) readLoop(ctx context.Context, sess *session) {
	defer func() { _ = sess.Close() }()

	sess.conn.SetReadLimit(1 << 20)
	sess.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reject(sess, "invalid json")
			continue
		}

		metrics.EventsTotal.WithLabelValues(msg.Type).Inc()

		// Событие обрабатывается до конца (персист, потом рассылка),
		// только затем читается следующее.
		switch msg.Type {
		case TypeMessage:
			s.onMessage(ctx, sess, msg.Payload)
		case TypeAnswer:
			s.onAnswer(ctx, sess, msg.Payload)
		case TypeUpdateMessage:
			s.onUpdateMessage(ctx, sess, msg.Payload)
		case TypeUpdateAnswer:
			s.onUpdateAnswer(ctx, sess, msg.Payload)
		case TypeDeleteMessage:
			s.onDeleteMessage(ctx, sess, msg.Payload)
		case TypeDeleteAnswer:
			s.onDeleteAnswer(ctx, sess, msg.Payload)
		default:
			// единообразный явный отказ в обоих доменах чата
			s.reject(sess, "wrong event type")
		}
	}
}

func (s *Server) onMessage(ctx context.Context, sess *session, payload interface{}) {
	var p InboundMessage
	if decode(payload, &p) != nil {
		s.reject(sess, "invalid payload")
		return
	}
	text := strings.TrimSpace(p.Text)
	if text == "" && len(p.Files) == 0 {
		return
	}
	if err := domain.ValidateRecipients(p.Audience, p.Recipients); err != nil {
		s.reject(sess, err.Error())
		return
	}

	m := &domain.ChatMessage{
		Room:        sess.room,
		SenderID:    sess.userID,
		SenderType:  sess.userType,
		Text:        text,
		Audience:    p.Audience,
		Recipients:  p.Recipients,
		Attachments: fromFileRefs(p.Files),
	}
	if err := s.chatSvc.PostMessage(ctx, m); err != nil {
		slog.Warn("ws post message failed", "room", sess.room, "user", sess.userID, "err", err)
		s.reject(sess, "message not saved")
		return
	}

	s.router.DeliverMessage(m, sess, Message{Type: TypeMessage, Payload: toMessageItem(m, nil)})
}

func (s *Server) onAnswer(ctx context.Context, sess *session, payload interface{}) {
	var p InboundAnswer
	if decode(payload, &p) != nil {
		s.reject(sess, "invalid payload")
		return
	}
	text := strings.TrimSpace(p.Text)
	if text == "" && len(p.Files) == 0 {
		return
	}

	a := &domain.Answer{
		MessageID:   p.MessageID,
		SenderID:    sess.userID,
		Text:        text,
		Attachments: fromFileRefs(p.Files),
	}
	parent, err := s.chatSvc.PostAnswer(ctx, a)
	if err != nil {
		slog.Warn("ws post answer failed", "room", sess.room, "user", sess.userID, "err", err)
		s.reject(sess, "answer not saved")
		return
	}

	// аудитория ответа — всегда аудитория родителя
	s.router.DeliverAnswer(parent, sess, Message{Type: TypeAnswer, Payload: toAnswerItem(a)})
}

func (s *Server) onUpdateMessage(ctx context.Context, sess *session, payload interface{}) {
	var p InboundUpdateMessage
	if decode(payload, &p) != nil {
		s.reject(sess, "invalid payload")
		return
	}
	if err := domain.ValidateRecipients(p.Audience, p.Recipients); err != nil {
		s.reject(sess, err.Error())
		return
	}

	m, err := s.chatSvc.EditMessage(ctx, p.ID, strings.TrimSpace(p.Text), p.Audience, p.Recipients)
	if err != nil {
		slog.Warn("ws update message failed", "room", sess.room, "id", p.ID, "err", err)
		s.reject(sess, "message not updated")
		return
	}

	// audience пересчитан до уведомления: рассылка идёт новой аудитории
	s.router.DeliverMessage(m, sess, Message{Type: TypeUpdateMessage, Payload: toMessageItem(m, nil)})
}

func (s *Server) onUpdateAnswer(ctx context.Context, sess *session, payload interface{}) {
	var p InboundUpdateAnswer
	if decode(payload, &p) != nil {
		s.reject(sess, "invalid payload")
		return
	}

	a, parent, err := s.chatSvc.EditAnswer(ctx, p.ID, strings.TrimSpace(p.Text))
	if err != nil {
		slog.Warn("ws update answer failed", "room", sess.room, "id", p.ID, "err", err)
		s.reject(sess, "answer not updated")
		return
	}

	s.router.DeliverAnswer(parent, sess, Message{Type: TypeUpdateAnswer, Payload: toAnswerItem(a)})
}

func (s *Server) onDeleteMessage(ctx context.Context, sess *session, payload interface{}) {
	var p InboundDelete
	if decode(payload, &p) != nil {
		s.reject(sess, "invalid payload")
		return
	}

	m, err := s.chatSvc.RemoveMessage(ctx, p.ID)
	if err != nil {
		slog.Warn("ws delete message failed", "room", sess.room, "id", p.ID, "err", err)
		s.reject(sess, "message not deleted")
		return
	}

	notice := Message{Type: TypeDeleteMessage, Payload: NoticePayload{
		Message: fmt.Sprintf("message %d deleted", m.ID),
	}}
	s.router.DeliverMessage(m, sess, notice)
}

func (s *Server) onDeleteAnswer(ctx context.Context, sess *session, payload interface{}) {
	var p InboundDelete
	if decode(payload, &p) != nil {
		s.reject(sess, "invalid payload")
		return
	}

	a, parent, err := s.chatSvc.RemoveAnswer(ctx, p.ID)
	if err != nil {
		slog.Warn("ws delete answer failed", "room", sess.room, "id", p.ID, "err", err)
		s.reject(sess, "answer not deleted")
		return
	}

	notice := Message{Type: TypeDeleteAnswer, Payload: NoticePayload{
		Message: fmt.Sprintf("answer %d deleted", a.ID),
	}}
	s.router.DeliverAnswer(parent, sess, notice)
}

func (s *Server) reject(sess *session, reason string) {
	_ = sess.Send(Message{Type: TypeError, Payload: ErrorPayload{Error: reason}})
}

func (s *Server) writeLoop(ctx context.Context, sess *session) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-sess.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

func fromFileRefs(refs []FileRef) []domain.Attachment {
	if len(refs) == 0 {
		return nil
	}
	out := make([]domain.Attachment, 0, len(refs))
	for _, f := range refs {
		out = append(out, domain.Attachment{Path: f.Path, Name: f.Name, Mime: f.Mime, Size: f.Size})
	}
	return out
}
