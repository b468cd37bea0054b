package service

import (
	"context"
	"errors"
	"strings"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/postgres"
)

var (
	ErrBadQuestion = errors.New("question kind does not match its options")
	ErrZeroWeight  = errors.New("question weight must be positive")
)

type TestService struct {
	tests   *postgres.TestRepository
	lessons *postgres.LessonRepository
}

func NewTestService(tests *postgres.TestRepository, lessons *postgres.LessonRepository) *TestService {
	return &TestService{tests: tests, lessons: lessons}
}

func (s *TestService) CreateTest(ctx context.Context, lessonID int64, title string) (*domain.Test, error) {
	if _, err := s.lessons.Get(ctx, lessonID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyName
	}

	t := &domain.Test{LessonID: lessonID, Title: title}
	if err := s.tests.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TestService) GetTest(ctx context.Context, id int64) (*domain.Test, []domain.Question, error) {
	t, err := s.tests.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	qs, err := s.tests.ListQuestions(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return t, qs, nil
}

func (s *TestService) ListByLesson(ctx context.Context, lessonID int64) ([]domain.Test, error) {
	return s.tests.ListByLesson(ctx, lessonID)
}

func (s *TestService) DeleteTest(ctx context.Context, id int64) error {
	return s.tests.Delete(ctx, id)
}

func (s *TestService) AddQuestion(ctx context.Context, q *domain.Question) error {
	if _, err := s.tests.Get(ctx, q.TestID); err != nil {
		return err
	}
	if q.Weight <= 0 {
		return ErrZeroWeight
	}

	switch q.Kind {
	case domain.QuestionSingle, domain.QuestionMultiple:
		if len(q.Options) == 0 || len(q.Pairs) != 0 {
			return ErrBadQuestion
		}
	case domain.QuestionMatching:
		if len(q.Pairs) == 0 || len(q.Options) != 0 {
			return ErrBadQuestion
		}
	default:
		return ErrBadQuestion
	}

	return s.tests.CreateQuestion(ctx, q)
}

func (s *TestService) GetResult(ctx context.Context, testID int64, studentID domain.UserID) (*domain.TestResult, error) {
	return s.tests.GetResult(ctx, testID, studentID)
}
