package domain

import (
	"strconv"
	"strings"
	"time"
)

// Ключи комнат двух доменов чата живут в одном пространстве имён.
func GroupRoomKey(name string) string { return "group:" + name }
func SubjectRoomKey(id int64) string  { return "subject:" + strconv.FormatInt(id, 10) }

// Audience определяет, кто получает сообщение.
type Audience string

const (
	AudienceEveryone Audience = "everyone" // вся комната
	AudienceSeveral  Audience = "several"  // явный список получателей
	AudienceAlone    Audience = "alone"    // отправитель + один адресат
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceEveryone, AudienceSeveral, AudienceAlone:
		return true
	}
	return false
}

// ChatMessage — сообщение чата (группового или предметного).
// Room — ключ комнаты вида "group:<name>" или "subject:<id>".
type ChatMessage struct {
	ID         int64     `db:"id"`
	Room       string    `db:"room"`
	SenderID   UserID    `db:"sender_id"`
	SenderType UserType  `db:"sender_type"`
	Text       string    `db:"text"`
	Audience   Audience  `db:"audience"`
	Fixed      bool      `db:"fixed"`
	Deleted    bool      `db:"deleted"`
	ReadBy     ReadBy    `db:"read_by"`
	CreatedAt  time.Time `db:"created_at"`

	Recipients  []UserID     // заполняется для audience=several|alone
	Attachments []Attachment // вложения сообщения
}

// Answer — ответ на ровно одно сообщение. Собственного audience у ответа
// нет: для маршрутизации он всегда наследует audience родителя.
type Answer struct {
	ID        int64     `db:"id"`
	MessageID int64     `db:"message_id"`
	SenderID  UserID    `db:"sender_id"`
	Text      string    `db:"text"`
	Deleted   bool      `db:"deleted"`
	ReadBy    ReadBy    `db:"read_by"`
	CreatedAt time.Time `db:"created_at"`

	Attachments []Attachment
}

// Attachment принадлежит либо сообщению, либо ответу (ровно одному).
type Attachment struct {
	ID        int64  `db:"id"`
	MessageID *int64 `db:"message_id"`
	AnswerID  *int64 `db:"answer_id"`
	Path      string `db:"path"`
	Name      string `db:"name"`
	Mime      string `db:"mime"`
	Size      int64  `db:"size"`
}

// ReadBy — список прочитавших в виде строки с разделителем-запятой,
// как хранит его легаси-схема. Append сознательно не идемпотентен:
// повторное прочтение дописывает id ещё раз.
type ReadBy string

func (r ReadBy) Append(id UserID) ReadBy {
	s := strconv.FormatInt(id, 10)
	if r == "" {
		return ReadBy(s)
	}
	return r + ReadBy(","+s)
}

func (r ReadBy) IDs() []UserID {
	if r == "" {
		return nil
	}
	parts := strings.Split(string(r), ",")
	out := make([]UserID, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func (r ReadBy) Contains(id UserID) bool {
	for _, v := range r.IDs() {
		if v == id {
			return true
		}
	}
	return false
}

// ValidateRecipients проверяет согласованность audience и списка получателей.
func ValidateRecipients(a Audience, recipients []UserID) error {
	switch a {
	case AudienceEveryone:
		return nil
	case AudienceSeveral:
		if len(recipients) == 0 {
			return ErrNoRecipients
		}
		return nil
	case AudienceAlone:
		if len(recipients) != 1 {
			return ErrOneRecipient
		}
		return nil
	default:
		return ErrBadAudience
	}
}

// VisibleTo сообщает, вправе ли пользователь видеть сообщение.
// Используется и для снапшота при подключении, и для пагинации истории.
func (m *ChatMessage) VisibleTo(userID UserID) bool {
	if m.Audience == AudienceEveryone {
		return true
	}
	if m.SenderID == userID {
		return true
	}
	for _, r := range m.Recipients {
		if r == userID {
			return true
		}
	}
	return false
}
