package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/edu-planet/edu-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestRepository struct {
	db *pgxpool.Pool
}

func NewTestRepository(db *pgxpool.Pool) *TestRepository {
	return &TestRepository{db: db}
}

func (r *TestRepository) Create(ctx context.Context, t *domain.Test) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tests (lesson_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, t.LessonID, t.Title).Scan(&t.ID, &t.CreatedAt)
}

func (r *TestRepository) Get(ctx context.Context, id int64) (*domain.Test, error) {
	var t domain.Test
	err := r.db.QueryRow(ctx,
		`SELECT id, lesson_id, title, created_at FROM tests WHERE id=$1`, id).
		Scan(&t.ID, &t.LessonID, &t.Title, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTestNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) ListByLesson(ctx context.Context, lessonID int64) ([]domain.Test, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, lesson_id, title, created_at FROM tests WHERE lesson_id=$1 ORDER BY id`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Test
	for rows.Next() {
		var t domain.Test
		if err := rows.Scan(&t.ID, &t.LessonID, &t.Title, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TestRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTestNotFound
	}
	return nil
}

// CreateQuestion пишет вопрос вместе с вариантами или парами одной транзакцией.
func (r *TestRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO questions (test_id, kind, text, weight)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, q.TestID, q.Kind, q.Text, q.Weight).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}

	for i := range q.Options {
		o := &q.Options[i]
		o.QuestionID = q.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO question_options (question_id, text, correct)
			VALUES ($1, $2, $3)
			RETURNING id
		`, o.QuestionID, o.Text, o.Correct).Scan(&o.ID); err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}

	for i := range q.Pairs {
		p := &q.Pairs[i]
		p.QuestionID = q.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO question_pairs (question_id, left_text, right_text)
			VALUES ($1, $2, $3)
			RETURNING id
		`, p.QuestionID, p.Left, p.Right).Scan(&p.ID); err != nil {
			return fmt.Errorf("insert pair: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListQuestions возвращает вопросы теста с вариантами и парами.
func (r *TestRepository) ListQuestions(ctx context.Context, testID int64) ([]domain.Question, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, test_id, kind, text, weight FROM questions WHERE test_id=$1 ORDER BY id
	`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qs []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.TestID, &q.Kind, &q.Text, &q.Weight); err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range qs {
		q := &qs[i]
		switch q.Kind {
		case domain.QuestionMatching:
			if q.Pairs, err = r.listPairs(ctx, q.ID); err != nil {
				return nil, err
			}
		default:
			if q.Options, err = r.listOptions(ctx, q.ID); err != nil {
				return nil, err
			}
		}
	}
	return qs, nil
}

func (r *TestRepository) listOptions(ctx context.Context, questionID int64) ([]domain.Option, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, question_id, text, correct FROM question_options WHERE question_id=$1 ORDER BY id`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Option
	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Correct); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *TestRepository) listPairs(ctx context.Context, questionID int64) ([]domain.MatchPair, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, question_id, left_text, right_text FROM question_pairs WHERE question_id=$1 ORDER BY id`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MatchPair
	for rows.Next() {
		var p domain.MatchPair
		if err := rows.Scan(&p.ID, &p.QuestionID, &p.Left, &p.Right); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveResult пишет все сохранённые ответы и итоговый балл одной транзакцией.
func (r *TestRepository) SaveResult(ctx context.Context, answers []domain.SubmittedAnswer, result *domain.TestResult) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range answers {
		a := &answers[i]
		if err := tx.QueryRow(ctx, `
			INSERT INTO submitted_answers (question_id, student_id, option_id, pair_id, chosen, score)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, a.QuestionID, a.StudentID, a.OptionID, a.PairID, a.Chosen, a.Score).Scan(&a.ID); err != nil {
			return fmt.Errorf("insert submitted answer: %w", err)
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO test_results (test_id, student_id, score)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, result.TestID, result.StudentID, result.Score).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert test result: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *TestRepository) GetResult(ctx context.Context, testID int64, studentID domain.UserID) (*domain.TestResult, error) {
	var res domain.TestResult
	err := r.db.QueryRow(ctx, `
		SELECT id, test_id, student_id, score, created_at
		FROM test_results
		WHERE test_id=$1 AND student_id=$2
		ORDER BY id DESC LIMIT 1
	`, testID, studentID).Scan(&res.ID, &res.TestID, &res.StudentID, &res.Score, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTestNotFound
		}
		return nil, err
	}
	return &res, nil
}
