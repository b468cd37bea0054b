package postgres

import (
	"context"
	"errors"

	"github.com/edu-planet/edu-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LessonRepository struct {
	db *pgxpool.Pool
}

func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) Create(ctx context.Context, l *domain.Lesson) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO lessons (subject_id, topic, body, scheduled_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, l.SubjectID, l.Topic, l.Body, l.ScheduledAt).Scan(&l.ID, &l.CreatedAt)
}

func (r *LessonRepository) Get(ctx context.Context, id int64) (*domain.Lesson, error) {
	var l domain.Lesson
	err := r.db.QueryRow(ctx, `
		SELECT id, subject_id, topic, body, scheduled_at, created_at
		FROM lessons WHERE id=$1
	`, id).Scan(&l.ID, &l.SubjectID, &l.Topic, &l.Body, &l.ScheduledAt, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *LessonRepository) ListBySubject(ctx context.Context, subjectID int64) ([]domain.Lesson, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, subject_id, topic, body, scheduled_at, created_at
		FROM lessons
		WHERE subject_id=$1
		ORDER BY scheduled_at ASC, id ASC
	`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lesson
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.SubjectID, &l.Topic, &l.Body, &l.ScheduledAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LessonRepository) Update(ctx context.Context, l *domain.Lesson) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE lessons SET topic=$2, body=$3, scheduled_at=$4 WHERE id=$1
	`, l.ID, l.Topic, l.Body, l.ScheduledAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrLessonNotFound
	}
	return nil
}

func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrLessonNotFound
	}
	return nil
}
