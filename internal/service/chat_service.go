package service

import (
	"context"
	"errors"
	"strings"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/postgres"
)

const maxMessageLen = 4000

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrMessageTooLong = errors.New("message too long")
	ErrParentDeleted  = errors.New("parent message is deleted")
)

type ChatService struct {
	messages *postgres.MessageRepository
}

func NewChatService(messages *postgres.MessageRepository) *ChatService {
	return &ChatService{messages: messages}
}

// PostMessage валидирует и сохраняет сообщение; запись получателей и
// вложений идёт в одной транзакции с самим сообщением.
func (s *ChatService) PostMessage(ctx context.Context, m *domain.ChatMessage) error {
	m.Text = strings.TrimSpace(m.Text)
	if m.Text == "" && len(m.Attachments) == 0 {
		return ErrEmptyMessage
	}
	if len(m.Text) > maxMessageLen {
		return ErrMessageTooLong
	}
	if err := domain.ValidateRecipients(m.Audience, m.Recipients); err != nil {
		return err
	}

	return s.messages.SaveMessage(ctx, m)
}

// PostAnswer сохраняет ответ и возвращает родительское сообщение:
// его audience определяет маршрутизацию ответа.
func (s *ChatService) PostAnswer(ctx context.Context, a *domain.Answer) (*domain.ChatMessage, error) {
	a.Text = strings.TrimSpace(a.Text)
	if a.Text == "" && len(a.Attachments) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(a.Text) > maxMessageLen {
		return nil, ErrMessageTooLong
	}

	parent, err := s.messages.GetMessage(ctx, a.MessageID)
	if err != nil {
		return nil, err
	}
	if parent.Deleted {
		return nil, ErrParentDeleted
	}

	if err := s.messages.SaveAnswer(ctx, a); err != nil {
		return nil, err
	}
	return parent, nil
}

// EditMessage меняет текст/audience и возвращает сообщение с уже
// актуальным списком получателей — уведомление уйдёт новой аудитории.
func (s *ChatService) EditMessage(ctx context.Context, id int64, text string, audience domain.Audience, recipients []domain.UserID) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > maxMessageLen {
		return nil, ErrMessageTooLong
	}
	if err := domain.ValidateRecipients(audience, recipients); err != nil {
		return nil, err
	}

	if err := s.messages.UpdateMessage(ctx, id, text, audience, recipients); err != nil {
		return nil, err
	}
	m, err := s.messages.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Audience == domain.AudienceAlone {
		// адресат alone в базе не хранится; при редактировании им остаётся
		// список из входящего события
		m.Recipients = recipients
	}
	return m, nil
}

func (s *ChatService) EditAnswer(ctx context.Context, id int64, text string) (*domain.Answer, *domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, ErrEmptyMessage
	}

	if err := s.messages.UpdateAnswer(ctx, id, text); err != nil {
		return nil, nil, err
	}
	a, err := s.messages.GetAnswer(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	parent, err := s.messages.GetMessage(ctx, a.MessageID)
	if err != nil {
		return nil, nil, err
	}
	return a, parent, nil
}

// RemoveMessage удаляет мягко и возвращает сообщение: его текущая audience
// нужна для адресации уведомления об удалении.
func (s *ChatService) RemoveMessage(ctx context.Context, id int64) (*domain.ChatMessage, error) {
	m, err := s.messages.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.messages.DeleteMessage(ctx, id); err != nil {
		return nil, err
	}
	m.Deleted = true
	return m, nil
}

func (s *ChatService) RemoveAnswer(ctx context.Context, id int64) (*domain.Answer, *domain.ChatMessage, error) {
	a, err := s.messages.GetAnswer(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	parent, err := s.messages.GetMessage(ctx, a.MessageID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.messages.DeleteAnswer(ctx, id); err != nil {
		return nil, nil, err
	}
	a.Deleted = true
	return a, parent, nil
}

// Snapshot — свежие сообщения комнаты, видимые пользователю, с ответами.
func (s *ChatService) Snapshot(ctx context.Context, room string, userID domain.UserID, limit int) ([]domain.ChatMessage, map[int64][]domain.Answer, error) {
	msgs, err := s.messages.History(ctx, room, userID, 0, limit)
	if err != nil {
		return nil, nil, err
	}

	answers := make(map[int64][]domain.Answer, len(msgs))
	for i := range msgs {
		list, err := s.messages.ListAnswers(ctx, msgs[i].ID)
		if err != nil {
			return nil, nil, err
		}
		if len(list) > 0 {
			answers[msgs[i].ID] = list
		}
	}
	return msgs, answers, nil
}

// History — HTTP-пагинация: сообщения старше beforeID с тем же фильтром
// видимости, что и снапшот. Это и есть путь восстановления пропущенного
// после переподключения.
func (s *ChatService) History(ctx context.Context, room string, userID domain.UserID, beforeID int64, limit int) ([]domain.ChatMessage, error) {
	return s.messages.History(ctx, room, userID, beforeID, limit)
}

// MarkMessageRead дописывает id читателя в read_by. Не идемпотентно.
func (s *ChatService) MarkMessageRead(ctx context.Context, id int64, userID domain.UserID) (domain.ReadBy, error) {
	return s.messages.AppendMessageRead(ctx, id, userID)
}

func (s *ChatService) MarkAnswerRead(ctx context.Context, id int64, userID domain.UserID) (domain.ReadBy, error) {
	return s.messages.AppendAnswerRead(ctx, id, userID)
}

func (s *ChatService) SetFixed(ctx context.Context, id int64, fixed bool) error {
	return s.messages.SetFixed(ctx, id, fixed)
}
