package ws

import (
	"time"

	"github.com/edu-planet/edu-service/internal/domain"
)

// Типы событий чата. Входящие и исходящие слоты совпадают по имени:
// на "message" клиентам уходит "message" и т.д.
const (
	TypeMessage       = "message"
	TypeAnswer        = "answer"
	TypeUpdateMessage = "updateMessage"
	TypeUpdateAnswer  = "updateAnswer"
	TypeDeleteMessage = "deleteMessage"
	TypeDeleteAnswer  = "deleteAnswer"

	TypeSnapshot = "snapshot" // начальное состояние при подключении
	TypePresence = "presence" // изменение числа активных
	TypeError    = "error"    // явный отказ, в т.ч. на неизвестный тип
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- входящие payload ---

type InboundMessage struct {
	Text       string          `json:"text"`
	Audience   domain.Audience `json:"messageType"`
	Recipients []domain.UserID `json:"recipients,omitempty"`
	Files      []FileRef       `json:"files,omitempty"`
}

type InboundAnswer struct {
	MessageID int64     `json:"messageId"`
	Text      string    `json:"text"`
	Files     []FileRef `json:"files,omitempty"`
}

type InboundUpdateMessage struct {
	ID         int64           `json:"id"`
	Text       string          `json:"text"`
	Audience   domain.Audience `json:"messageType"`
	Recipients []domain.UserID `json:"recipients,omitempty"`
}

type InboundUpdateAnswer struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type InboundDelete struct {
	ID int64 `json:"id"`
}

// FileRef — уже загруженное через HTTP вложение.
type FileRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

// --- исходящие payload ---

type MessageItem struct {
	ID         int64           `json:"id"`
	Room       string          `json:"room"`
	SenderID   domain.UserID   `json:"senderId"`
	SenderType domain.UserType `json:"senderType"`
	Text       string          `json:"text"`
	Audience   domain.Audience `json:"messageType"`
	Recipients []domain.UserID `json:"recipients,omitempty"`
	Fixed      bool            `json:"fixed"`
	ReadBy     []domain.UserID `json:"readBy"`
	Files      []FileRef       `json:"files,omitempty"`
	Answers    []AnswerItem    `json:"answers,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type AnswerItem struct {
	ID        int64           `json:"id"`
	MessageID int64           `json:"messageId"`
	SenderID  domain.UserID   `json:"senderId"`
	Text      string          `json:"text"`
	ReadBy    []domain.UserID `json:"readBy"`
	Files     []FileRef       `json:"files,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type PresencePayload struct {
	TotalActive    int             `json:"totalActive"`
	IDsActiveUsers []domain.UserID `json:"idsActiveUsers"`
}

type SnapshotPayload struct {
	Room     string        `json:"room"`
	Messages []MessageItem `json:"messages"`
	Users    []UserItem    `json:"users"`
}

type UserItem struct {
	ID        domain.UserID   `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Type      domain.UserType `json:"type"`
	AvatarURL *string         `json:"avatarUrl,omitempty"`
}

type NoticePayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// --- конвертеры domain -> payload ---

func toFileRefs(atts []domain.Attachment) []FileRef {
	if len(atts) == 0 {
		return nil
	}
	out := make([]FileRef, 0, len(atts))
	for _, a := range atts {
		out = append(out, FileRef{Path: a.Path, Name: a.Name, Mime: a.Mime, Size: a.Size})
	}
	return out
}

func toMessageItem(m *domain.ChatMessage, answers []domain.Answer) MessageItem {
	item := MessageItem{
		ID:         m.ID,
		Room:       m.Room,
		SenderID:   m.SenderID,
		SenderType: m.SenderType,
		Text:       m.Text,
		Audience:   m.Audience,
		Recipients: m.Recipients,
		Fixed:      m.Fixed,
		ReadBy:     m.ReadBy.IDs(),
		Files:      toFileRefs(m.Attachments),
		CreatedAt:  m.CreatedAt,
	}
	for i := range answers {
		item.Answers = append(item.Answers, toAnswerItem(&answers[i]))
	}
	return item
}

func toAnswerItem(a *domain.Answer) AnswerItem {
	return AnswerItem{
		ID:        a.ID,
		MessageID: a.MessageID,
		SenderID:  a.SenderID,
		Text:      a.Text,
		ReadBy:    a.ReadBy.IDs(),
		Files:     toFileRefs(a.Attachments),
		CreatedAt: a.CreatedAt,
	}
}

func toUserItem(u *domain.User) UserItem {
	return UserItem{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Type:      u.Type,
		AvatarURL: u.AvatarURL,
	}
}
