package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/edu-planet/edu-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// SaveMessage пишет сообщение, получателей и вложения одной транзакцией:
// либо событие сохраняется целиком, либо не сохраняется вовсе.
func (r *MessageRepository) SaveMessage(ctx context.Context, m *domain.ChatMessage) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO chat_messages (room, sender_id, sender_type, text, audience, read_by)
		VALUES ($1, $2, $3, $4, $5, '')
		RETURNING id, created_at
	`, m.Room, m.SenderID, m.SenderType, m.Text, m.Audience).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	// audience=alone получателем в таблицу не пишется, адресат хранится
	// только для several
	if m.Audience == domain.AudienceSeveral {
		for _, uid := range m.Recipients {
			if _, err := tx.Exec(ctx, `
				INSERT INTO chat_recipients (message_id, user_id) VALUES ($1, $2)
			`, m.ID, uid); err != nil {
				return fmt.Errorf("insert recipient: %w", err)
			}
		}
	}

	for i := range m.Attachments {
		a := &m.Attachments[i]
		a.MessageID = &m.ID
		if err := insertAttachment(ctx, tx, a); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *MessageRepository) SaveAnswer(ctx context.Context, a *domain.Answer) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO chat_answers (message_id, sender_id, text, read_by)
		VALUES ($1, $2, $3, '')
		RETURNING id, created_at
	`, a.MessageID, a.SenderID, a.Text).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}

	for i := range a.Attachments {
		att := &a.Attachments[i]
		att.AnswerID = &a.ID
		if err := insertAttachment(ctx, tx, att); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func insertAttachment(ctx context.Context, tx pgx.Tx, a *domain.Attachment) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO chat_attachments (message_id, answer_id, path, name, mime, size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, a.MessageID, a.AnswerID, a.Path, a.Name, a.Mime, a.Size).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetMessage(ctx context.Context, id int64) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	err := r.db.QueryRow(ctx, `
		SELECT id, room, sender_id, sender_type, text, audience, fixed, deleted, read_by, created_at
		FROM chat_messages WHERE id=$1
	`, id).Scan(&m.ID, &m.Room, &m.SenderID, &m.SenderType, &m.Text, &m.Audience,
		&m.Fixed, &m.Deleted, &m.ReadBy, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}

	if m.Recipients, err = r.listRecipients(ctx, m.ID); err != nil {
		return nil, err
	}
	if m.Attachments, err = r.listAttachments(ctx, `message_id=$1`, m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) GetAnswer(ctx context.Context, id int64) (*domain.Answer, error) {
	var a domain.Answer
	err := r.db.QueryRow(ctx, `
		SELECT id, message_id, sender_id, text, deleted, read_by, created_at
		FROM chat_answers WHERE id=$1
	`, id).Scan(&a.ID, &a.MessageID, &a.SenderID, &a.Text, &a.Deleted, &a.ReadBy, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnswerNotFound
		}
		return nil, err
	}
	if a.Attachments, err = r.listAttachments(ctx, `answer_id=$1`, a.ID); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateMessage меняет текст и audience; список получателей перезаписывается
// в той же транзакции, чтобы смена audience сразу была видна маршрутизации.
func (r *MessageRepository) UpdateMessage(ctx context.Context, id int64, text string, audience domain.Audience, recipients []domain.UserID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE chat_messages SET text=$2, audience=$3 WHERE id=$1 AND NOT deleted
	`, id, text, audience)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM chat_recipients WHERE message_id=$1`, id); err != nil {
		return err
	}
	if audience == domain.AudienceSeveral {
		for _, uid := range recipients {
			if _, err := tx.Exec(ctx, `
				INSERT INTO chat_recipients (message_id, user_id) VALUES ($1, $2)
			`, id, uid); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *MessageRepository) UpdateAnswer(ctx context.Context, id int64, text string) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE chat_answers SET text=$2 WHERE id=$1 AND NOT deleted`, id, text)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}

func (r *MessageRepository) SetFixed(ctx context.Context, id int64, fixed bool) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE chat_messages SET fixed=$2 WHERE id=$1`, id, fixed)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// Удаление мягкое: строка остаётся, история и нумерация не ломаются.
func (r *MessageRepository) DeleteMessage(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE chat_messages SET deleted=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) DeleteAnswer(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE chat_answers SET deleted=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}

// AppendMessageRead дописывает id читателя в конец read_by. Повторное
// прочтение дописывает его ещё раз — так ведёт себя легаси-формат,
// и это поведение закреплено тестами.
func (r *MessageRepository) AppendMessageRead(ctx context.Context, id int64, userID domain.UserID) (domain.ReadBy, error) {
	var rb domain.ReadBy
	err := r.db.QueryRow(ctx, `
		UPDATE chat_messages
		SET read_by = CASE WHEN read_by = '' THEN $2::text ELSE read_by || ',' || $2::text END
		WHERE id=$1
		RETURNING read_by
	`, id, fmt.Sprint(userID)).Scan(&rb)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrMessageNotFound
		}
		return "", err
	}
	return rb, nil
}

func (r *MessageRepository) AppendAnswerRead(ctx context.Context, id int64, userID domain.UserID) (domain.ReadBy, error) {
	var rb domain.ReadBy
	err := r.db.QueryRow(ctx, `
		UPDATE chat_answers
		SET read_by = CASE WHEN read_by = '' THEN $2::text ELSE read_by || ',' || $2::text END
		WHERE id=$1
		RETURNING read_by
	`, id, fmt.Sprint(userID)).Scan(&rb)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrAnswerNotFound
		}
		return "", err
	}
	return rb, nil
}

// History возвращает сообщения комнаты старше beforeID, видимые пользователю.
// Тот же фильтр видимости применяется к снапшоту при подключении (beforeID=0).
func (r *MessageRepository) History(ctx context.Context, room string, userID domain.UserID, beforeID int64, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, room, sender_id, sender_type, text, audience, fixed, deleted, read_by, created_at
		FROM chat_messages m
		WHERE room = $1
		  AND NOT deleted
		  AND ($2 = 0 OR id < $2)
		  AND (
		    audience = 'everyone'
		    OR sender_id = $3
		    OR EXISTS (SELECT 1 FROM chat_recipients cr WHERE cr.message_id = m.id AND cr.user_id = $3)
		  )
		ORDER BY id DESC
		LIMIT $4
	`, room, beforeID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.Room, &m.SenderID, &m.SenderType, &m.Text, &m.Audience,
			&m.Fixed, &m.Deleted, &m.ReadBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		m := &out[i]
		if m.Recipients, err = r.listRecipients(ctx, m.ID); err != nil {
			return nil, err
		}
		if m.Attachments, err = r.listAttachments(ctx, `message_id=$1`, m.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListAnswers — ответы на сообщение в порядке появления.
func (r *MessageRepository) ListAnswers(ctx context.Context, messageID int64) ([]domain.Answer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, message_id, sender_id, text, deleted, read_by, created_at
		FROM chat_answers
		WHERE message_id=$1 AND NOT deleted
		ORDER BY id ASC
	`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.MessageID, &a.SenderID, &a.Text, &a.Deleted, &a.ReadBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *MessageRepository) listRecipients(ctx context.Context, messageID int64) ([]domain.UserID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM chat_recipients WHERE message_id=$1 ORDER BY user_id`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserID
	for rows.Next() {
		var id domain.UserID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *MessageRepository) listAttachments(ctx context.Context, where string, arg any) ([]domain.Attachment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, message_id, answer_id, path, name, mime, size FROM chat_attachments WHERE `+where, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attachment
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.MessageID, &a.AnswerID, &a.Path, &a.Name, &a.Mime, &a.Size); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
