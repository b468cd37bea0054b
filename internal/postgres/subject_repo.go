package postgres

import (
	"context"
	"errors"

	"github.com/edu-planet/edu-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubjectRepository struct {
	db *pgxpool.Pool
}

func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) Create(ctx context.Context, s *domain.Subject) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO subjects (title, teacher_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, s.Title, s.TeacherID).Scan(&s.ID, &s.CreatedAt)
}

func (r *SubjectRepository) Get(ctx context.Context, id int64) (*domain.Subject, error) {
	var s domain.Subject
	err := r.db.QueryRow(ctx,
		`SELECT id, title, teacher_id, created_at FROM subjects WHERE id=$1`, id).
		Scan(&s.ID, &s.Title, &s.TeacherID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubjectNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubjectRepository) List(ctx context.Context, limit int, cursorStr string) ([]domain.Subject, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}

	query := `
		SELECT id, title, teacher_id, created_at
		FROM subjects
		WHERE ($1::timestamptz IS NULL OR created_at < $1
		       OR (created_at = $1 AND id < $2))
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var s domain.Subject
		if err := rows.Scan(&s.ID, &s.Title, &s.TeacherID, &s.CreatedAt); err != nil {
			return nil, "", err
		}
		subjects = append(subjects, s)
	}

	var next string
	if len(subjects) == limit {
		last := subjects[len(subjects)-1]
		next, _ = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return subjects, next, rows.Err()
}

func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSubjectNotFound
	}
	return nil
}

func (r *SubjectRepository) LinkGroup(ctx context.Context, subjectID, groupID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO subject_groups (subject_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, subjectID, groupID)
	return err
}

func (r *SubjectRepository) UnlinkGroup(ctx context.Context, subjectID, groupID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM subject_groups WHERE subject_id=$1 AND group_id=$2`, subjectID, groupID)
	return err
}

// ListStudents возвращает студентов всех групп предмета; они же — аудитория
// предметного чата.
func (r *SubjectRepository) ListStudents(ctx context.Context, subjectID int64) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.user_type, u.avatar_url, u.created_at, u.updated_at
		FROM subject_groups sg
		JOIN group_members m ON m.group_id = sg.group_id
		JOIN users u ON u.id = m.user_id
		WHERE sg.subject_id = $1
		ORDER BY u.last_name, u.first_name
	`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Type, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
